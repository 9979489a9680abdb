package imgchest

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// APIBaseURL is the base url of the versioned api.
	APIBaseURL = "https://api.imgchest.com"

	// SiteBaseURL is the base url of the website.
	SiteBaseURL = "https://imgchest.com"

	// CreatePostURL is the endpoint for creating posts.
	CreatePostURL = APIBaseURL + "/v1/post"

	// BulkFilesURL is the endpoint for bulk file updates.
	BulkFilesURL = APIBaseURL + "/v1/files"

	// PostIDLength is the length of a post id.
	PostIDLength = 11
)

// PostURL builds the api url for a post.
func PostURL(id string) string {
	return APIBaseURL + "/v1/post/" + id
}

// FavoriteURL builds the api url for toggling a post favorite.
func FavoriteURL(id string) string {
	return APIBaseURL + "/v1/post/" + id + "/favorite"
}

// AddImagesURL builds the api url for adding images to a post.
func AddImagesURL(id string) string {
	return APIBaseURL + "/v1/post/" + id + "/add"
}

// UserURL builds the api url for a user.
func UserURL(username string) string {
	return APIBaseURL + "/v1/user/" + username
}

// FileURL builds the api url for a file.
func FileURL(id string) string {
	return APIBaseURL + "/v1/file/" + id
}

// PageURL builds the website url for a post.
func PageURL(id string) string {
	return SiteBaseURL + "/p/" + id
}

// LoadAllURL builds the website url for fetching the hidden files of a post.
func LoadAllURL(id string) string {
	return SiteBaseURL + "/p/" + id + "/loadAll"
}

// IsValidPostID reports whether id looks like a post id.
//
// Post ids are 11 lowercase alphanumeric characters.
func IsValidPostID(id string) bool {
	if len(id) != PostIDLength {
		return false
	}

	for _, c := range id {
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		if !isLower && !isDigit {
			return false
		}
	}

	return true
}

// ResolvePostID extracts a post id from a post url or a bare id.
func ResolvePostID(raw string) (string, error) {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		if u.Host != "imgchest.com" {
			return "", fmt.Errorf("unexpected host %q", u.Host)
		}

		id, ok := strings.CutPrefix(u.Path, "/p/")
		if !ok {
			return "", fmt.Errorf("%q is not a post url", raw)
		}

		id = strings.TrimSuffix(id, "/")
		if !IsValidPostID(id) {
			return "", fmt.Errorf("invalid post id %q", id)
		}

		return id, nil
	}

	if !IsValidPostID(raw) {
		return "", fmt.Errorf("invalid post id %q, ids are %d lowercase alphanumeric characters", raw, PostIDLength)
	}

	return raw, nil
}
