// Package handlers maps HTTP requests onto the content and social graph
// services and renders the resulting views.
package handlers

import (
	"log"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"yatube/backend/comment"
	"yatube/backend/follower"
	"yatube/backend/group"
	"yatube/backend/post"
	"yatube/backend/user"
	"yatube/backend/view"
)

const sessionCookie = "session"

// Server holds the collaborators every handler needs.
type Server struct {
	Users     *user.Service
	Tokens    *user.Tokens
	Groups    *group.Store
	Posts     *post.Service
	Comments  *comment.Store
	Follows   *follower.Service
	Views     view.Renderer
	UploadDir string
}

// RequestContext is what a handler knows about the request beyond the raw
// *http.Request: who is asking (nil when anonymous), the path variables and
// the query string.
type RequestContext struct {
	User  *user.User
	Vars  map[string]string
	Query url.Values
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, rc RequestContext)

// Handler returns the router wrapped in panic recovery.
func (s *Server) Handler() http.Handler {
	return s.recoverer(s.Routes())
}

func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = s.handle(s.notFound)
	r.MethodNotAllowedHandler = s.handle(s.notFound)

	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.UploadDir)))
	r.PathPrefix("/uploads/").Handler(uploads).Methods(http.MethodGet)

	r.HandleFunc("/", s.handle(s.index)).Methods(http.MethodGet)
	r.HandleFunc("/auth/signup/", s.handle(s.signup)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/auth/login/", s.handle(s.login)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/auth/logout/", s.handle(s.logout)).Methods(http.MethodPost)
	r.HandleFunc("/new", s.handle(s.loginRequired(s.newPost))).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/follow/", s.handle(s.loginRequired(s.followIndex))).Methods(http.MethodGet)
	r.HandleFunc("/group/{slug}/", s.handle(s.groupPosts)).Methods(http.MethodGet)
	r.HandleFunc("/{username}/", s.handle(s.profile)).Methods(http.MethodGet)
	r.HandleFunc("/{username}/follow/", s.handle(s.loginRequired(s.profileFollow))).Methods(http.MethodPost)
	r.HandleFunc("/{username}/unfollow/", s.handle(s.loginRequired(s.profileUnfollow))).Methods(http.MethodPost)
	r.HandleFunc("/{username}/{post_id:[0-9]+}/", s.handle(s.postDetail)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/{username}/{post_id:[0-9]+}/comment", s.handle(s.loginRequired(s.addComment))).Methods(http.MethodPost)
	r.HandleFunc("/{username}/{post_id:[0-9]+}/edit/", s.handle(s.loginRequired(s.postEdit))).Methods(http.MethodGet, http.MethodPost)

	return r
}

func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := RequestContext{
			User:  s.currentUser(r),
			Vars:  mux.Vars(r),
			Query: r.URL.Query(),
		}
		fn(w, r, rc)
	}
}

// currentUser resolves the session token, from the Authorization header or
// the session cookie, into a user. Any failure means anonymous.
func (s *Server) currentUser(r *http.Request) *user.User {
	var token string
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	} else if c, err := r.Cookie(sessionCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		return nil
	}

	id, err := s.Tokens.Parse(token)
	if err != nil {
		log.Printf("[Auth] Ignoring session: %v", err)
		return nil
	}

	u, err := s.Users.GetByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			log.Printf("[Auth] Loading session user %d failed: %v", id, err)
		}
		return nil
	}
	return &u
}

// loginRequired sends anonymous requests to the login page, returning them
// to the original path afterwards.
func (s *Server) loginRequired(fn handlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request, rc RequestContext) {
		if rc.User == nil {
			target := "/auth/login/?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		fn(w, r, rc)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	s.Views.Render(w, http.StatusNotFound, "misc/404", errorView{User: rc.User, Path: r.URL.Path})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, rc RequestContext, err error) {
	log.Printf("[Server] %s %s failed: %v", r.Method, r.URL.Path, err)
	s.Views.Render(w, http.StatusInternalServerError, "misc/500", errorView{User: rc.User, Path: r.URL.Path})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.Printf("[Server] panic serving %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
				s.Views.Render(w, http.StatusInternalServerError, "misc/500", errorView{Path: r.URL.Path})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
