package imgchest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Bool returns a pointer to v, for filling optional request fields.
func Bool(v bool) *bool {
	return &v
}

// UploadFile is a file to be uploaded as part of a post.
type UploadFile struct {
	// The file name sent to the server.
	Name string

	// The file content.
	//
	// If the body also implements io.Closer it is closed
	// after the upload is written, pass or fail.
	Body io.Reader
}

// UploadFileFromPath opens the file at the given path for upload.
func UploadFileFromPath(path string) (UploadFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return UploadFile{}, err
	}

	return UploadFile{
		Name: filepath.Base(path),
		Body: file,
	}, nil
}

// UploadFileFromBytes wraps in-memory content for upload.
func UploadFileFromBytes(name string, data []byte) UploadFile {
	return UploadFile{
		Name: name,
		Body: bytes.NewReader(data),
	}
}

// CreatePostRequest describes a post to create.
type CreatePostRequest struct {
	// The post title.
	//
	// Empty means no title. When set it must be at least 3 characters.
	Title string

	// The post visibility. Empty leaves the server default.
	Privacy Privacy

	// Whether the post is nsfw. Nil leaves the server default.
	Nsfw *bool

	// Whether the post is created anonymously.
	Anonymous *bool

	// The files of the post. At least one is required.
	Images []UploadFile
}

// UpdatePostRequest describes changes to an existing post.
//
// Zero-valued fields are left untouched.
type UpdatePostRequest struct {
	// The new post title.
	Title string

	// The new post visibility.
	Privacy Privacy

	// The new nsfw flag.
	Nsfw *bool
}
