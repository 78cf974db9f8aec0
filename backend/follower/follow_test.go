package follower

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/backend/post"
	"yatube/backend/testutil"
)

func TestFollow_Idempotent(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewService(conn, post.NewService(conn, post.NewUploader(t.TempDir())))
	ctx := context.Background()
	kostya := testutil.CreateUser(t, conn, "kostya")
	vika := testutil.CreateUser(t, conn, "vika")

	created, err := svc.Follow(ctx, kostya, vika)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Follow(ctx, kostya, vika)
	require.NoError(t, err)
	assert.False(t, created)

	counts, err := svc.Counts(ctx, vika)
	require.NoError(t, err)
	assert.Equal(t, Counts{Followers: 1, Following: 0}, counts)

	following, err := svc.IsFollowing(ctx, kostya, vika)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = svc.IsFollowing(ctx, vika, kostya)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollow_Self(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewService(conn, post.NewService(conn, post.NewUploader(t.TempDir())))
	ctx := context.Background()
	kostya := testutil.CreateUser(t, conn, "kostya")

	_, err := svc.Follow(ctx, kostya, kostya)
	assert.True(t, errors.Is(err, ErrSelfFollow))

	counts, err := svc.Counts(ctx, kostya)
	require.NoError(t, err)
	assert.Zero(t, counts.Followers)
	assert.Zero(t, counts.Following)
}

func TestUnfollow(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewService(conn, post.NewService(conn, post.NewUploader(t.TempDir())))
	ctx := context.Background()
	kostya := testutil.CreateUser(t, conn, "kostya")
	vika := testutil.CreateUser(t, conn, "vika")

	require.NoError(t, svc.Unfollow(ctx, kostya, vika), "unfollowing a non-followed author is not an error")

	_, err := svc.Follow(ctx, kostya, vika)
	require.NoError(t, err)
	require.NoError(t, svc.Unfollow(ctx, kostya, vika))
	require.NoError(t, svc.Unfollow(ctx, kostya, vika))
	require.NoError(t, svc.Unfollow(ctx, kostya, kostya))

	counts, err := svc.Counts(ctx, kostya)
	require.NoError(t, err)
	assert.Zero(t, counts.Following)
}

func TestFeed(t *testing.T) {
	conn := testutil.NewDB(t)
	posts := post.NewService(conn, post.NewUploader(t.TempDir())).
		WithClock(testutil.Clock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	svc := NewService(conn, posts)
	ctx := context.Background()
	kostya := testutil.CreateUser(t, conn, "kostya")
	vika := testutil.CreateUser(t, conn, "vika")

	for i := 1; i <= 15; i++ {
		_, err := posts.Create(ctx, kostya, post.NewPostInput{Text: fmt.Sprintf("kostya %d", i)})
		require.NoError(t, err)
		_, err = posts.Create(ctx, vika, post.NewPostInput{Text: fmt.Sprintf("vika %d", i)})
		require.NoError(t, err)
	}

	empty, err := svc.Feed(ctx, kostya, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 1, empty.Number)

	_, err = svc.Follow(ctx, kostya, vika)
	require.NoError(t, err)

	page, err := svc.Feed(ctx, kostya, "1")
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	assert.Equal(t, 15, page.Count)
	for _, p := range page.Items {
		assert.Equal(t, vika, p.AuthorID)
	}
	assert.Equal(t, "vika 15", page.Items[0].Text)
	for i := 1; i < len(page.Items); i++ {
		assert.True(t, page.Items[i-1].CreatedAt.After(page.Items[i].CreatedAt))
	}
}

func TestFollowing(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewService(conn, post.NewService(conn, post.NewUploader(t.TempDir())))
	ctx := context.Background()
	a := testutil.CreateUser(t, conn, "a")
	b := testutil.CreateUser(t, conn, "b")
	c := testutil.CreateUser(t, conn, "c")

	_, err := svc.Follow(ctx, a, c)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, a, b)
	require.NoError(t, err)

	ids, err := svc.Following(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []int64{c, b}, ids)
}
