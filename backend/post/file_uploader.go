package post

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// MaxUploadSize bounds the multipart body accepted by post forms.
const MaxUploadSize = 10 << 20

var ErrInvalidImage = errors.New("upload a valid image: the file was either not an image or a corrupted image")

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// Upload is an image submitted with a post form.
type Upload struct {
	Filename string
	Data     []byte
}

// ReadUpload pulls the file in fieldName out of a parsed multipart form. A
// missing file is not an error and yields nil. Files larger than
// MaxUploadSize are rejected with ErrInvalidImage.
func ReadUpload(r *http.Request, fieldName string) (*Upload, error) {
	file, header, err := r.FormFile(fieldName)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadSize {
		log.Printf("[Posts] Rejecting upload %s: larger than %d bytes", header.Filename, MaxUploadSize)
		return nil, ErrInvalidImage
	}
	return &Upload{Filename: header.Filename, Data: data}, nil
}

// Uploader stores post images below dir/posts.
type Uploader struct {
	dir string
}

func NewUploader(dir string) *Uploader {
	return &Uploader{dir: dir}
}

func (u *Uploader) Dir() string { return u.dir }

// Format decodes the whole image and reports its format. Truncated or
// corrupt data is ErrInvalidImage even when the header is intact.
func Format(up Upload) (string, error) {
	_, format, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		return "", ErrInvalidImage
	}
	if _, ok := extensions[format]; !ok {
		return "", ErrInvalidImage
	}
	return format, nil
}

// Save validates and writes up, returning its path relative to the upload
// directory.
func (u *Uploader) Save(up Upload) (string, error) {
	format, err := Format(up)
	if err != nil {
		return "", err
	}

	postsDir := filepath.Join(u.dir, "posts")
	if err := os.MkdirAll(postsDir, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "creating upload directory")
	}

	rel := filepath.ToSlash(filepath.Join("posts", uuid.NewString()+extensions[format]))
	if err := os.WriteFile(filepath.Join(u.dir, rel), up.Data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing upload")
	}
	return rel, nil
}

// Remove deletes a stored image. Missing files are ignored.
func (u *Uploader) Remove(rel string) {
	if rel == "" {
		return
	}
	if err := os.Remove(filepath.Join(u.dir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		log.Printf("[Posts] Removing image %s failed: %v", rel, err)
	}
}
