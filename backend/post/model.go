package post

import (
	"strings"
	"time"
)

// Post is a published entry joined with the fields views need from its
// author and group.
type Post struct {
	ID        int64     `db:"id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	Image     string    `db:"image"`
	AuthorID  int64     `db:"author_id"`
	GroupID   *int64    `db:"group_id"`

	AuthorUsername  string `db:"author_username"`
	AuthorFirstName string `db:"author_first_name"`
	AuthorLastName  string `db:"author_last_name"`
	GroupSlug       string `db:"group_slug"`
	GroupTitle      string `db:"group_title"`
}

func (p Post) AuthorName() string {
	name := strings.TrimSpace(p.AuthorFirstName + " " + p.AuthorLastName)
	if name == "" {
		return p.AuthorUsername
	}
	return name
}

// String is the first 15 characters of the text.
func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > 15 {
		runes = runes[:15]
	}
	return string(runes)
}

// NewPostInput is the payload of the create and edit forms. Text may be
// empty; GroupID and Image are optional.
type NewPostInput struct {
	Text    string
	GroupID *int64
	Image   *Upload
}

// toPost maps the form payload onto a new row. imagePath is the stored
// location of Image, if one was saved.
func (in NewPostInput) toPost(authorID int64, imagePath string, now time.Time) Post {
	return Post{
		Text:      in.Text,
		CreatedAt: now,
		Image:     imagePath,
		AuthorID:  authorID,
		GroupID:   in.GroupID,
	}
}
