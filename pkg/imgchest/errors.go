package imgchest

import (
	"errors"
	"fmt"
)

// Validation errors reported before any request is sent.
var (
	// ErrMissingToken is returned by API operations when no token is set.
	ErrMissingToken = errors.New("missing api token")
	// ErrTitleTooShort is returned when a post title is under 3 characters.
	ErrTitleTooShort = errors.New("title must be at least 3 characters")
	// ErrMissingImages is returned when an upload has no images.
	ErrMissingImages = errors.New("at least one image is required")
	// ErrMissingDescription is returned when a file update has an empty
	// description.
	ErrMissingDescription = errors.New("missing description")
)

// Response errors reported after a request completed.
var (
	// ErrOperationFailed is returned when the API reports success=false.
	ErrOperationFailed = errors.New("api reported the operation failed")
	// ErrMissingMessage is returned when a response that should carry a
	// message has none.
	ErrMissingMessage = errors.New("api response is missing a message")
)

// Scrape errors reported while assembling a post from the page markup.
var (
	ErrMissingPostID    = errors.New("missing post id")
	ErrMissingTitle     = errors.New("missing title")
	ErrMissingUsername  = errors.New("missing username")
	ErrMissingViews     = errors.New("missing views")
	ErrMissingFileID    = errors.New("missing file id")
	ErrMissingFileLink  = errors.New("missing file link")
	ErrMissingCSRFToken = errors.New("missing csrf token")
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// UnknownMessageError is returned when a favorite toggle answers with a
// message the client does not recognize.
type UnknownMessageError struct {
	Message string
}

func (e *UnknownMessageError) Error() string {
	return fmt.Sprintf("unknown api message %q", e.Message)
}

// InvalidViewsError is returned when the view counter on a post page does
// not parse as a number.
type InvalidViewsError struct {
	Err error
}

func (e *InvalidViewsError) Error() string {
	return fmt.Sprintf("invalid views: %v", e.Err)
}

func (e *InvalidViewsError) Unwrap() error {
	return e.Err
}

// InvalidDataPageError is returned when the embedded data-page payload of
// a post page does not decode.
type InvalidDataPageError struct {
	Err error
}

func (e *InvalidDataPageError) Error() string {
	return fmt.Sprintf("invalid data-page payload: %v", e.Err)
}

func (e *InvalidDataPageError) Unwrap() error {
	return e.Err
}
