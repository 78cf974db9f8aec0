package post

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"yatube/backend/db"
	"yatube/backend/paginator"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrNotAuthor = errors.New("only the author may edit a post")
)

const selectPost = `
	SELECT p.id, p.text, p.created_at, p.image, p.author_id, p.group_id,
	       u.username AS author_username, u.first_name AS author_first_name, u.last_name AS author_last_name,
	       COALESCE(g.slug, '') AS group_slug, COALESCE(g.title, '') AS group_title
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

const newestFirst = ` ORDER BY p.created_at DESC, p.id DESC`

// Service creates, edits and lists posts.
type Service struct {
	db      *sqlx.DB
	uploads *Uploader
	now     func() time.Time
}

func NewService(conn *sqlx.DB, uploads *Uploader) *Service {
	return &Service{db: conn, uploads: uploads, now: time.Now}
}

// WithClock replaces the clock used to stamp new posts.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create publishes a post for authorID. An invalid image yields
// ErrInvalidImage and nothing is stored.
func (s *Service) Create(ctx context.Context, authorID int64, in NewPostInput) (Post, error) {
	var imagePath string
	if in.Image != nil {
		path, err := s.uploads.Save(*in.Image)
		if err != nil {
			return Post{}, err
		}
		imagePath = path
	}

	p := in.toPost(authorID, imagePath, s.now().UTC())
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (text, created_at, image, author_id, group_id) VALUES (?, ?, ?, ?, ?)",
		p.Text, p.CreatedAt, p.Image, p.AuthorID, p.GroupID)
	if err != nil {
		s.uploads.Remove(imagePath)
		return Post{}, errors.Wrap(err, "inserting post")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Post{}, errors.Wrap(err, "reading post id")
	}

	log.Printf("[Posts] User %d created new post (ID: %d)", authorID, id)
	return s.getByID(ctx, id)
}

// Update applies an edit by editorID. Only the author may edit; anyone else
// gets ErrNotAuthor and the post is left untouched. The image is replaced
// only when in carries a new one.
func (s *Service) Update(ctx context.Context, editorID, postID int64, in NewPostInput) (Post, error) {
	var newImage, oldImage string
	if in.Image != nil {
		path, err := s.uploads.Save(*in.Image)
		if err != nil {
			return Post{}, err
		}
		newImage = path
	}

	err := db.WithTx(ctx, s.db, "update post", func(tx *sqlx.Tx) error {
		var current struct {
			AuthorID int64  `db:"author_id"`
			Image    string `db:"image"`
		}
		err := tx.GetContext(ctx, &current, "SELECT author_id, image FROM posts WHERE id = ?", postID)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return errors.Wrapf(err, "loading post %d", postID)
		}
		if current.AuthorID != editorID {
			return ErrNotAuthor
		}

		image := current.Image
		if newImage != "" {
			image = newImage
			oldImage = current.Image
		}

		_, err = tx.ExecContext(ctx, "UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?",
			in.Text, in.GroupID, image, postID)
		return errors.Wrapf(err, "updating post %d", postID)
	})
	if err != nil {
		s.uploads.Remove(newImage)
		return Post{}, err
	}

	s.uploads.Remove(oldImage)
	log.Printf("[Posts] User %d edited post %d", editorID, postID)
	return s.getByID(ctx, postID)
}

func (s *Service) getByID(ctx context.Context, id int64) (Post, error) {
	var p Post
	err := s.db.GetContext(ctx, &p, selectPost+" WHERE p.id = ?", id)
	if err == sql.ErrNoRows {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, errors.Wrapf(err, "loading post %d", id)
	}
	return p, nil
}

// Get loads postID, which must belong to authorID.
func (s *Service) Get(ctx context.Context, authorID, postID int64) (Post, error) {
	p, err := s.getByID(ctx, postID)
	if err != nil {
		return Post{}, err
	}
	if p.AuthorID != authorID {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM posts WHERE author_id = ?", authorID); err != nil {
		return 0, errors.Wrapf(err, "counting posts of user %d", authorID)
	}
	return count, nil
}

// List is the global feed.
func (s *Service) List(ctx context.Context, page string) (paginator.Page[Post], error) {
	return s.page(ctx, "", nil, page)
}

func (s *Service) ListByGroup(ctx context.Context, groupID int64, page string) (paginator.Page[Post], error) {
	return s.page(ctx, " WHERE p.group_id = ?", []any{groupID}, page)
}

func (s *Service) ListByAuthor(ctx context.Context, authorID int64, page string) (paginator.Page[Post], error) {
	return s.page(ctx, " WHERE p.author_id = ?", []any{authorID}, page)
}

// ListByAuthors is the feed of every post written by one of authorIDs.
func (s *Service) ListByAuthors(ctx context.Context, authorIDs []int64, page string) (paginator.Page[Post], error) {
	if len(authorIDs) == 0 {
		return paginator.Empty[Post](), nil
	}

	where, args, err := sqlx.In(" WHERE p.author_id IN (?)", authorIDs)
	if err != nil {
		return paginator.Page[Post]{}, errors.Wrap(err, "expanding author ids")
	}
	return s.page(ctx, s.db.Rebind(where), args, page)
}

func (s *Service) page(ctx context.Context, where string, args []any, page string) (paginator.Page[Post], error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM posts p"+where, args...); err != nil {
		return paginator.Page[Post]{}, errors.Wrap(err, "counting posts")
	}

	w := paginator.Resolve(page, count)
	posts := []Post{}
	query := selectPost + where + newestFirst + " LIMIT ? OFFSET ?"
	if err := s.db.SelectContext(ctx, &posts, query, append(args, w.Limit, w.Offset)...); err != nil {
		return paginator.Page[Post]{}, errors.Wrap(err, "listing posts")
	}
	return paginator.NewPage(w, count, posts), nil
}
