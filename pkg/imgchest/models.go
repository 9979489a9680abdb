package imgchest

import (
	"encoding/json"
	"fmt"
	"time"
)

// Privacy is the visibility of a post.
type Privacy string

const (
	// PrivacyPublic posts are listed publicly.
	PrivacyPublic Privacy = "public"

	// PrivacyHidden posts are reachable only by link.
	PrivacyHidden Privacy = "hidden"

	// PrivacySecret posts are visible only to their owner.
	PrivacySecret Privacy = "secret"
)

// UnmarshalJSON decodes a privacy value, rejecting unknown variants.
func (p *Privacy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch v := Privacy(s); v {
	case PrivacyPublic, PrivacyHidden, PrivacySecret:
		*p = v
		return nil
	default:
		return fmt.Errorf("unknown privacy value %q", s)
	}
}

func (p Privacy) String() string {
	return string(p)
}

// IntBool is a bool encoded as the JSON number 0 or 1.
//
// The api reports flags like nsfw this way.
type IntBool bool

// UnmarshalJSON decodes 0 or 1, rejecting all other values.
func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0":
		*b = false
	case "1":
		*b = true
	default:
		return fmt.Errorf("invalid integer bool %q", string(data))
	}

	return nil
}

// MarshalJSON encodes the bool as the number 0 or 1.
func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// StringBool is a bool encoded as the JSON string "true" or "false".
//
// Status responses report success this way.
type StringBool bool

// UnmarshalJSON decodes "true" or "false", rejecting all other values.
func (b *StringBool) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "true":
		*b = true
	case "false":
		*b = false
	default:
		return fmt.Errorf("invalid string bool %q", s)
	}

	return nil
}

// MarshalJSON encodes the bool as the string "true" or "false".
func (b StringBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte(`"true"`), nil
	}
	return []byte(`"false"`), nil
}

// Post is a post as reported by the api.
type Post struct {
	// The post id.
	ID string `json:"id"`

	// The post title, if any.
	Title *string `json:"title"`

	// The name of the user that created the post.
	Username string `json:"username"`

	// The post visibility.
	Privacy Privacy `json:"privacy"`

	ReportStatus int `json:"report_status"`

	// The number of views.
	Views uint64 `json:"views"`

	// Whether the post is nsfw.
	Nsfw IntBool `json:"nsfw"`

	// The number of files in the post.
	ImageCount uint64 `json:"image_count"`

	// The time the post was created.
	Created time.Time `json:"created"`

	// The files of the post.
	Images []PostFile `json:"images"`

	// A deletion link, present only on anonymous post creation.
	DeleteURL *string `json:"delete_url,omitempty"`
}

// PostFile is a file belonging to a post, as reported by the api.
type PostFile struct {
	// The file id.
	ID string `json:"id"`

	// The file description, if any.
	Description *string `json:"description"`

	// A link to the file content.
	Link string `json:"link"`

	// The 1-based position of the file within its post.
	Position uint32 `json:"position"`

	// The time the file was created.
	Created time.Time `json:"created"`

	// The uploaded file name, only reported for the post owner.
	OriginalName *string `json:"original_name,omitempty"`
}

// User is a user as reported by the api.
type User struct {
	// The user name.
	Name string `json:"name"`

	// The number of posts the user created.
	Posts uint64 `json:"posts"`

	// The number of comments the user created.
	Comments uint64 `json:"comments"`

	// The time the user was created.
	Created time.Time `json:"created"`
}

// FileUpdate is a single entry of a bulk file update.
type FileUpdate struct {
	// The file id.
	ID string `json:"id"`

	// The new file description.
	//
	// The api rejects empty descriptions.
	Description string `json:"description"`
}

// completedResponse is the status payload returned by mutating endpoints.
type completedResponse struct {
	Success StringBool `json:"success"`
	Message *string    `json:"message"`
}
