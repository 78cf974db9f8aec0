package handlers

import (
	"net/http"

	"yatube/backend/comment"
)

// addComment attaches a comment to the post and returns to its page. The text
// may be empty.
func (s *Server) addComment(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	author, p, ok := s.lookupPost(w, r, rc)
	if !ok {
		return
	}
	detail := postURL(author.Username, p.ID)

	if err := parseForm(r); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	in := comment.NewCommentInput{PostID: p.ID, AuthorID: rc.User.ID, Text: r.PostFormValue("text")}
	if _, err := s.Comments.Create(r.Context(), in); err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	http.Redirect(w, r, detail, http.StatusFound)
}
