package follower

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"yatube/backend/paginator"
	"yatube/backend/post"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

// Feeds lists posts for a set of authors.
type Feeds interface {
	ListByAuthors(ctx context.Context, authorIDs []int64, page string) (paginator.Page[post.Post], error)
}

// Service maintains follow relationships and the feed they produce.
type Service struct {
	db    *sqlx.DB
	feeds Feeds
}

func NewService(conn *sqlx.DB, feeds Feeds) *Service {
	return &Service{db: conn, feeds: feeds}
}

// Follow makes userID a follower of authorID. Following an author twice is
// a no-op; created reports whether a new row was written.
func (s *Service) Follow(ctx context.Context, userID, authorID int64) (bool, error) {
	if userID == authorID {
		return false, ErrSelfFollow
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO follows (user_id, author_id) VALUES (?, ?) ON CONFLICT (user_id, author_id) DO NOTHING",
		userID, authorID)
	if err != nil {
		return false, errors.Wrapf(err, "following %d -> %d", userID, authorID)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "checking follow result")
	}
	if n > 0 {
		log.Printf("[Follow] User %d now follows %d", userID, authorID)
	}
	return n > 0, nil
}

// Unfollow removes the relationship if it exists.
func (s *Service) Unfollow(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return nil
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM follows WHERE user_id = ? AND author_id = ?", userID, authorID)
	if err != nil {
		return errors.Wrapf(err, "unfollowing %d -> %d", userID, authorID)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("[Follow] User %d unfollowed %d", userID, authorID)
	}
	return nil
}

func (s *Service) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM follows WHERE user_id = ? AND author_id = ?)", userID, authorID)
	if err != nil {
		return false, errors.Wrap(err, "checking follow status")
	}
	return exists, nil
}

// Counts returns how many users follow userID and how many userID follows.
func (s *Service) Counts(ctx context.Context, userID int64) (Counts, error) {
	var c Counts
	if err := s.db.GetContext(ctx, &c.Followers, "SELECT COUNT(*) FROM follows WHERE author_id = ?", userID); err != nil {
		return Counts{}, errors.Wrap(err, "counting followers")
	}
	if err := s.db.GetContext(ctx, &c.Following, "SELECT COUNT(*) FROM follows WHERE user_id = ?", userID); err != nil {
		return Counts{}, errors.Wrap(err, "counting following")
	}
	return c, nil
}

// Following returns the ids of every author userID follows.
func (s *Service) Following(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, "SELECT author_id FROM follows WHERE user_id = ? ORDER BY id", userID); err != nil {
		return nil, errors.Wrap(err, "listing followed authors")
	}
	return ids, nil
}

// Feed is the personalised feed of userID: posts by followed authors, newest
// first. Following nobody yields an empty first page.
func (s *Service) Feed(ctx context.Context, userID int64, page string) (paginator.Page[post.Post], error) {
	authors, err := s.Following(ctx, userID)
	if err != nil {
		return paginator.Page[post.Post]{}, err
	}
	return s.feeds.ListByAuthors(ctx, authors, page)
}
