package handlers

import (
	"net/http"

	"github.com/pkg/errors"

	"yatube/backend/follower"
)

func (s *Server) followIndex(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	page, err := s.Follows.Feed(r.Context(), rc.User.ID, rc.Query.Get("page"))
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	s.Views.Render(w, http.StatusOK, "follow", feedView{User: rc.User, Page: page})
}

func (s *Server) profileFollow(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	author, ok := s.lookupAuthor(w, r, rc)
	if !ok {
		return
	}

	_, err := s.Follows.Follow(r.Context(), rc.User.ID, author.ID)
	if errors.Is(err, follower.ErrSelfFollow) {
		http.Redirect(w, r, "/follow/", http.StatusFound)
		return
	}
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	http.Redirect(w, r, "/"+author.Username+"/", http.StatusFound)
}

func (s *Server) profileUnfollow(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	author, ok := s.lookupAuthor(w, r, rc)
	if !ok {
		return
	}

	if err := s.Follows.Unfollow(r.Context(), rc.User.ID, author.ID); err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	http.Redirect(w, r, "/"+author.Username+"/", http.StatusFound)
}
