package comment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/backend/testutil"
)

func TestCreateAndList(t *testing.T) {
	conn := testutil.NewDB(t)
	store := NewStore(conn).WithClock(testutil.Clock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	author := testutil.CreateUser(t, conn, "kostya")
	reader := testutil.CreateUser(t, conn, "vika")
	res := conn.MustExec("INSERT INTO posts (text, created_at, author_id) VALUES ('post', ?, ?)", time.Now().UTC(), author)
	postID, err := res.LastInsertId()
	require.NoError(t, err)

	_, err = store.Create(ctx, NewCommentInput{PostID: postID, AuthorID: author, Text: "first"})
	require.NoError(t, err)
	_, err = store.Create(ctx, NewCommentInput{PostID: postID, AuthorID: reader, Text: "second"})
	require.NoError(t, err)

	comments, err := store.ListByPost(ctx, postID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "vika", comments[0].AuthorName())
	assert.Equal(t, "first", comments[1].Text)
}

func TestCreate_UnknownPost(t *testing.T) {
	conn := testutil.NewDB(t)
	store := NewStore(conn)
	author := testutil.CreateUser(t, conn, "kostya")

	_, err := store.Create(context.Background(), NewCommentInput{PostID: 999, AuthorID: author, Text: "orphan"})
	assert.Error(t, err)
}

func TestPostDeletionOrphansComments(t *testing.T) {
	conn := testutil.NewDB(t)
	store := NewStore(conn)
	ctx := context.Background()

	author := testutil.CreateUser(t, conn, "kostya")
	res := conn.MustExec("INSERT INTO posts (text, created_at, author_id) VALUES ('post', ?, ?)", time.Now().UTC(), author)
	postID, err := res.LastInsertId()
	require.NoError(t, err)

	_, err = store.Create(ctx, NewCommentInput{PostID: postID, AuthorID: author, Text: "kept"})
	require.NoError(t, err)

	conn.MustExec("DELETE FROM posts WHERE id = ?", postID)

	comments, err := store.ListByPost(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	var orphans int
	require.NoError(t, conn.Get(&orphans, "SELECT COUNT(*) FROM comments WHERE post_id IS NULL"))
	assert.Equal(t, 1, orphans)
}
