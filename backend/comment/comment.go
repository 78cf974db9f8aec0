package comment

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(conn *sqlx.DB) *Store {
	return &Store{db: conn, now: time.Now}
}

// WithClock replaces the clock used to stamp new comments.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Create(ctx context.Context, in NewCommentInput) (Comment, error) {
	c := Comment{
		PostID:    &in.PostID,
		AuthorID:  in.AuthorID,
		Text:      in.Text,
		CreatedAt: s.now().UTC(),
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (post_id, author_id, text, created_at) VALUES (?, ?, ?, ?)",
		c.PostID, c.AuthorID, c.Text, c.CreatedAt)
	if err != nil {
		return Comment{}, errors.Wrapf(err, "inserting comment on post %d", in.PostID)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return Comment{}, errors.Wrap(err, "reading comment id")
	}

	log.Printf("[Comments] User %d commented on post %d (ID: %d)", in.AuthorID, in.PostID, c.ID)
	return c, nil
}

// ListByPost returns every comment on postID, newest first.
func (s *Store) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	comments := []Comment{}
	err := s.db.SelectContext(ctx, &comments, `
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at,
		       u.username AS author_username, u.first_name AS author_first_name, u.last_name AS author_last_name
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at DESC, c.id DESC`, postID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing comments of post %d", postID)
	}
	return comments, nil
}
