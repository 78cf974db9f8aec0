package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"yatube/backend/group"
	"yatube/backend/post"
)

const (
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// postForm is the create/edit form as submitted, kept for re-rendering.
type postForm struct {
	Text    string
	GroupID string
	Errors  map[string]string
}

func (f postForm) valid() bool { return len(f.Errors) == 0 }

func postFormFrom(p post.Post) postForm {
	f := postForm{Text: p.Text}
	if p.GroupID != nil {
		f.GroupID = strconv.FormatInt(*p.GroupID, 10)
	}
	return f
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(post.MaxUploadSize)
	}
	return r.ParseForm()
}

// bindPostForm maps a submitted post form onto a typed input. Field problems
// are reported in the returned form's Errors; the error return is reserved
// for faults.
func (s *Server) bindPostForm(r *http.Request) (postForm, post.NewPostInput, error) {
	form := postForm{
		Text:    r.PostFormValue("text"),
		GroupID: strings.TrimSpace(r.PostFormValue("group")),
		Errors:  map[string]string{},
	}
	in := post.NewPostInput{Text: form.Text}

	if form.GroupID != "" {
		id, err := strconv.ParseInt(form.GroupID, 10, 64)
		if err != nil {
			form.Errors["group"] = msgInvalidChoice
		} else if _, err := s.Groups.GetByID(r.Context(), id); err != nil {
			if !errors.Is(err, group.ErrNotFound) {
				return form, in, err
			}
			form.Errors["group"] = msgInvalidChoice
		} else {
			in.GroupID = &id
		}
	}

	upload, err := post.ReadUpload(r, "image")
	if err != nil {
		form.Errors["image"] = msgInvalidImage
	} else if upload != nil {
		if _, err := post.Format(*upload); err != nil {
			form.Errors["image"] = msgInvalidImage
		} else {
			in.Image = upload
		}
	}

	return form, in, nil
}
