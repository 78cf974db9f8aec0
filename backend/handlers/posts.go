package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"yatube/backend/group"
	"yatube/backend/post"
	"yatube/backend/user"
)

func postURL(username string, postID int64) string {
	return fmt.Sprintf("/%s/%d/", username, postID)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	page, err := s.Posts.List(r.Context(), rc.Query.Get("page"))
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	s.Views.Render(w, http.StatusOK, "index", feedView{User: rc.User, Page: page})
}

func (s *Server) groupPosts(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	g, err := s.Groups.GetBySlug(r.Context(), rc.Vars["slug"])
	if errors.Is(err, group.ErrNotFound) {
		s.notFound(w, r, rc)
		return
	}
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}

	page, err := s.Posts.ListByGroup(r.Context(), g.ID, rc.Query.Get("page"))
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	s.Views.Render(w, http.StatusOK, "group", groupView{User: rc.User, Group: g, Page: page})
}

func (s *Server) renderPostForm(w http.ResponseWriter, r *http.Request, rc RequestContext, form postForm, editing *post.Post) {
	groups, err := s.Groups.List(r.Context())
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	s.Views.Render(w, http.StatusOK, "new", postFormView{User: rc.User, Form: form, Groups: groups, Post: editing})
}

func (s *Server) newPost(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	if r.Method != http.MethodPost {
		s.renderPostForm(w, r, rc, postForm{}, nil)
		return
	}

	if err := parseForm(r); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form, in, err := s.bindPostForm(r)
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	if !form.valid() {
		s.renderPostForm(w, r, rc, form, nil)
		return
	}

	_, err = s.Posts.Create(r.Context(), rc.User.ID, in)
	if errors.Is(err, post.ErrInvalidImage) {
		form.Errors["image"] = msgInvalidImage
		s.renderPostForm(w, r, rc, form, nil)
		return
	}
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// lookupAuthor resolves the {username} path variable, rendering 404 itself
// when there is no such user. ok is false when a response was written.
func (s *Server) lookupAuthor(w http.ResponseWriter, r *http.Request, rc RequestContext) (user.User, bool) {
	author, err := s.Users.GetByUsername(r.Context(), rc.Vars["username"])
	if errors.Is(err, user.ErrNotFound) {
		s.notFound(w, r, rc)
		return user.User{}, false
	}
	if err != nil {
		s.serverError(w, r, rc, err)
		return user.User{}, false
	}
	return author, true
}

// lookupPost resolves {username}/{post_id}; the post must belong to that
// author.
func (s *Server) lookupPost(w http.ResponseWriter, r *http.Request, rc RequestContext) (user.User, post.Post, bool) {
	author, ok := s.lookupAuthor(w, r, rc)
	if !ok {
		return user.User{}, post.Post{}, false
	}

	postID, err := strconv.ParseInt(rc.Vars["post_id"], 10, 64)
	if err != nil {
		s.notFound(w, r, rc)
		return user.User{}, post.Post{}, false
	}

	p, err := s.Posts.Get(r.Context(), author.ID, postID)
	if errors.Is(err, post.ErrNotFound) {
		s.notFound(w, r, rc)
		return user.User{}, post.Post{}, false
	}
	if err != nil {
		s.serverError(w, r, rc, err)
		return user.User{}, post.Post{}, false
	}
	return author, p, true
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	author, ok := s.lookupAuthor(w, r, rc)
	if !ok {
		return
	}
	ctx := r.Context()

	page, err := s.Posts.ListByAuthor(ctx, author.ID, rc.Query.Get("page"))
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	counts, err := s.Follows.Counts(ctx, author.ID)
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}

	following := false
	if rc.User != nil {
		if following, err = s.Follows.IsFollowing(ctx, rc.User.ID, author.ID); err != nil {
			s.serverError(w, r, rc, err)
			return
		}
	}

	s.Views.Render(w, http.StatusOK, "profile", profileView{
		User:      rc.User,
		Author:    author,
		Count:     page.Count,
		Counts:    counts,
		Following: following,
		Page:      page,
	})
}

// postDetail shows a post with its comments. A POST here adds a comment, the
// same as the dedicated comment route.
func (s *Server) postDetail(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	if r.Method == http.MethodPost {
		s.loginRequired(s.addComment)(w, r, rc)
		return
	}

	author, p, ok := s.lookupPost(w, r, rc)
	if !ok {
		return
	}
	ctx := r.Context()

	comments, err := s.Comments.ListByPost(ctx, p.ID)
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	count, err := s.Posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	counts, err := s.Follows.Counts(ctx, author.ID)
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}

	s.Views.Render(w, http.StatusOK, "post", postView{
		User:     rc.User,
		Post:     p,
		Author:   author,
		Count:    count,
		Counts:   counts,
		Comments: comments,
	})
}

// postEdit lets the author change a post. Anyone else is sent back to the
// post without an error.
func (s *Server) postEdit(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	author, p, ok := s.lookupPost(w, r, rc)
	if !ok {
		return
	}
	detail := postURL(author.Username, p.ID)

	if rc.User.ID != p.AuthorID {
		log.Printf("[Posts] User %d may not edit post %d", rc.User.ID, p.ID)
		http.Redirect(w, r, detail, http.StatusFound)
		return
	}

	if r.Method != http.MethodPost {
		s.renderPostForm(w, r, rc, postFormFrom(p), &p)
		return
	}

	if err := parseForm(r); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	form, in, err := s.bindPostForm(r)
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	if !form.valid() {
		s.renderPostForm(w, r, rc, form, &p)
		return
	}

	_, err = s.Posts.Update(r.Context(), rc.User.ID, p.ID, in)
	switch {
	case errors.Is(err, post.ErrNotAuthor):
		http.Redirect(w, r, detail, http.StatusFound)
	case errors.Is(err, post.ErrInvalidImage):
		form.Errors["image"] = msgInvalidImage
		s.renderPostForm(w, r, rc, form, &p)
	case err != nil:
		s.serverError(w, r, rc, err)
	default:
		http.Redirect(w, r, detail, http.StatusFound)
	}
}
