package group

import (
	"context"
	"database/sql"
	"log"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	ErrNotFound    = errors.New("group not found")
	ErrInvalidSlug = errors.New("slug must be 1-75 letters, digits, hyphens or underscores")
	ErrInvalidName = errors.New("title must be 1-200 characters")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]{1,75}$`)

type Store struct {
	db *sqlx.DB
}

func NewStore(conn *sqlx.DB) *Store {
	return &Store{db: conn}
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (Group, error) {
	var g Group
	err := s.db.GetContext(ctx, &g, "SELECT id, title, slug, description FROM groups WHERE slug = ?", slug)
	if err == sql.ErrNoRows {
		return Group{}, ErrNotFound
	}
	if err != nil {
		return Group{}, errors.Wrapf(err, "loading group %q", slug)
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (Group, error) {
	var g Group
	err := s.db.GetContext(ctx, &g, "SELECT id, title, slug, description FROM groups WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return Group{}, ErrNotFound
	}
	if err != nil {
		return Group{}, errors.Wrapf(err, "loading group %d", id)
	}
	return g, nil
}

// List returns all groups ordered by title, for form choices and the CLI.
func (s *Store) List(ctx context.Context) ([]Group, error) {
	groups := []Group{}
	if err := s.db.SelectContext(ctx, &groups, "SELECT id, title, slug, description FROM groups ORDER BY title, id"); err != nil {
		return nil, errors.Wrap(err, "listing groups")
	}
	return groups, nil
}

// Create inserts a group. A duplicate slug surfaces as the storage error.
func (s *Store) Create(ctx context.Context, title, slug, description string) (Group, error) {
	title = strings.TrimSpace(title)
	if title == "" || len([]rune(title)) > 200 {
		return Group{}, ErrInvalidName
	}
	if !slugPattern.MatchString(slug) {
		return Group{}, ErrInvalidSlug
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO groups (title, slug, description) VALUES (?, ?, ?)", title, slug, description)
	if err != nil {
		return Group{}, errors.Wrapf(err, "inserting group %q", slug)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Group{}, errors.Wrap(err, "reading group id")
	}

	log.Printf("[Groups] Created group %q (ID: %d)", slug, id)
	return Group{ID: id, Title: title, Slug: slug, Description: description}, nil
}
