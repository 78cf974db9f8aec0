package comment

import (
	"strings"
	"time"
)

// Comment is a reply to a post. PostID is nil once the post is deleted.
type Comment struct {
	ID        int64     `db:"id"`
	PostID    *int64    `db:"post_id"`
	AuthorID  int64     `db:"author_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`

	AuthorUsername  string `db:"author_username"`
	AuthorFirstName string `db:"author_first_name"`
	AuthorLastName  string `db:"author_last_name"`
}

func (c Comment) AuthorName() string {
	name := strings.TrimSpace(c.AuthorFirstName + " " + c.AuthorLastName)
	if name == "" {
		return c.AuthorUsername
	}
	return name
}

// NewCommentInput is the comment form payload plus the ids the handler
// resolved from the session and path.
type NewCommentInput struct {
	PostID   int64
	AuthorID int64
	Text     string
}
