package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"yatube/backend/user"
)

const msgInvalidLogin = "Please enter a correct username and password."

func (s *Server) signup(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	if r.Method != http.MethodPost {
		s.Views.Render(w, http.StatusOK, "signup", signupView{User: rc.User})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	in := user.SignupInput{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Username:  r.PostFormValue("username"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
	}

	_, err := s.Users.Register(r.Context(), in)
	var fieldErrs user.FieldErrors
	if errors.As(err, &fieldErrs) {
		in.Password = ""
		s.Views.Render(w, http.StatusOK, "signup", signupView{User: rc.User, Form: in, Errors: fieldErrs})
		return
	}
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}
	http.Redirect(w, r, "/auth/login/", http.StatusFound)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	if r.Method != http.MethodPost {
		s.Views.Render(w, http.StatusOK, "login", loginView{User: rc.User, Next: rc.Query.Get("next")})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	next := r.PostFormValue("next")

	u, err := s.Users.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, user.ErrInvalidCredentials) {
		s.Views.Render(w, http.StatusOK, "login", loginView{
			User:     rc.User,
			Username: username,
			Next:     next,
			Error:    msgInvalidLogin,
		})
		return
	}
	if err != nil {
		s.serverError(w, r, rc, err)
		return
	}

	token, err := s.Tokens.Issue(u)
	if err != nil {
		s.serverError(w, r, rc, errors.Wrap(err, "issuing session token"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(user.TokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Printf("[Auth] User %s logged in", u.Username)
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request, rc RequestContext) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if rc.User != nil {
		log.Printf("[Auth] User %s logged out", rc.User.Username)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// safeNext only allows redirects to local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
