package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

func TestStoreLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(Demo())

	post, err := s.Post(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), post.Score)

	_, err = s.Post(ctx, 999)
	require.ErrorIs(t, err, site.ErrNotFound)

	user, err := s.User(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, "Mysticial", user.Name())

	_, err = s.User(ctx, 999)
	require.ErrorIs(t, err, site.ErrNotFound)

	users, err := s.Users(ctx, []int64{10, 12, 999})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestStoreAnswersAndComments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(Demo())

	answers, err := s.Answers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	for _, a := range answers {
		require.NotNil(t, a.ParentID)
		assert.Equal(t, int64(1), *a.ParentID)
	}

	comments, err := s.Comments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
}

func TestStoreSearchOrdersByScore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(Dataset{Posts: []site.Post{
		{ID: 1, Score: 50, Body: "x", Tags: site.ParseTags("<c++><performance>")},
		{ID: 2, Score: 10, Body: "y", Tags: site.ParseTags("<c++>")},
		{ID: 3, Score: 70, Body: "z", Tags: site.ParseTags("<c>")},
	}})

	posts, err := s.SearchTag(ctx, "c++", 25)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(posts))

	posts, err = s.SearchTag(ctx, "c", 25)
	require.NoError(t, err)
	assert.Empty(t, posts)

	posts, err = s.SearchBody(ctx, "", 25)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids(posts))

	posts, err = s.SearchBody(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestStorePopular(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(Demo())

	count, err := s.CountPopular(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	post, err := s.PopularAt(ctx, 25, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), post.ID)

	_, err = s.PopularAt(ctx, 25, 3)
	require.ErrorIs(t, err, site.ErrNotFound)
}

func ids(posts []site.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
