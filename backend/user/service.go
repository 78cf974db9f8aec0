package user

import (
	"context"
	"database/sql"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]{1,150}$`)

// Usernames that would shadow top-level routes.
var reservedUsernames = map[string]bool{
	"new":     true,
	"follow":  true,
	"group":   true,
	"auth":    true,
	"uploads": true,
}

// Service stores accounts and checks credentials.
type Service struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewService(conn *sqlx.DB) *Service {
	return &Service{db: conn, now: time.Now}
}

const selectUser = `SELECT id, username, first_name, last_name, email, password, created_at FROM users`

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, selectUser+" WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, errors.Wrapf(err, "loading user %d", id)
	}
	return u, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, selectUser+" WHERE username = ?", username)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, errors.Wrapf(err, "loading user %q", username)
	}
	return u, nil
}

func (s *Service) validate(ctx context.Context, in SignupInput) (FieldErrors, error) {
	errs := FieldErrors{}

	switch {
	case in.Username == "":
		errs["username"] = "This field is required."
	case !usernamePattern.MatchString(in.Username):
		errs["username"] = "Enter a valid username: letters, digits and @/./+/-/_ only."
	case reservedUsernames[strings.ToLower(in.Username)]:
		errs["username"] = "This username is not available."
	default:
		_, err := s.GetByUsername(ctx, in.Username)
		if err == nil {
			errs["username"] = "A user with that username already exists."
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	if in.Email != "" && !strings.Contains(in.Email, "@") {
		errs["email"] = "Enter a valid email address."
	}
	if len(in.Password) < minPasswordLength {
		errs["password"] = "This password is too short. It must contain at least 8 characters."
	}
	return errs, nil
}

// Register creates an account. Validation problems are returned as
// FieldErrors; anything else is a storage fault.
func (s *Service) Register(ctx context.Context, in SignupInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	errs, err := s.validate(ctx, in)
	if err != nil {
		return User{}, err
	}
	if len(errs) > 0 {
		return User{}, errs
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	u := User{
		Username:  in.Username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     in.Email,
		Password:  string(hashed),
		CreatedAt: s.now().UTC(),
	}

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (username, first_name, last_name, email, password, created_at)
		VALUES (:username, :first_name, :last_name, :email, :password, :created_at)`, u)
	if err != nil {
		return User{}, errors.Wrap(err, "inserting user")
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return User{}, errors.Wrap(err, "reading user id")
	}

	log.Printf("[Auth] User %s registered (ID: %d)", u.Username, u.ID)
	return u, nil
}

// Authenticate returns the user when password matches, ErrInvalidCredentials
// otherwise.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		log.Printf("[Auth] Invalid password for user %d", u.ID)
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}
