package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

func int64p(v int64) *int64 { return &v }

func TestCommentItemsSortByScoreWithNullsAsZero(t *testing.T) {
	t.Parallel()

	comments := []site.Comment{
		{ID: 1, Score: int64p(0), Text: "zero"},
		{ID: 2, Text: "null"},
		{ID: 3, Score: int64p(7), Text: "seven"},
		{ID: 4, Score: int64p(-2), Text: "negative"},
		{ID: 5, Score: int64p(7), Text: "seven again"},
	}

	got := commentItems(comments)

	texts := make([]string, 0, len(got))
	for _, c := range got {
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"seven", "seven again", "zero", "null", "negative"}, texts)
	assert.Equal(t, int64(0), got[3].Score)
	assert.Equal(t, "zero", comments[0].Text, "input must not be reordered")
}

func TestOwnerIDsDeduplicates(t *testing.T) {
	t.Parallel()

	question := site.Post{ID: 1, OwnerUserID: int64p(10)}
	answers := []site.Post{
		{ID: 2, OwnerUserID: int64p(11)},
		{ID: 3},
		{ID: 4, OwnerUserID: int64p(10)},
	}

	assert.Equal(t, []int64{10, 11}, ownerIDs(question, answers))
	assert.Empty(t, ownerIDs(site.Post{ID: 9}, nil))
}

func TestPostItemOwnerLabel(t *testing.T) {
	t.Parallel()

	owners := map[int64]site.User{12: {ID: 12}}

	anonymous := postItem("demo", site.Post{ID: 1, OwnerUserID: int64p(12)}, owners, false)
	if assert.NotNil(t, anonymous.Owner) {
		assert.Equal(t, "user 12", anonymous.Owner.Name)
		assert.Equal(t, "/demo/user/12", anonymous.Owner.URL)
	}

	unknown := postItem("demo", site.Post{ID: 2, OwnerUserID: int64p(99)}, owners, true)
	assert.Nil(t, unknown.Owner)
	assert.True(t, unknown.Accepted)
}

func TestURLs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/math/search", searchURL("math"))
	assert.Equal(t, "/math/post/42", postURL("math", 42))
	assert.Equal(t, "/math/user/7", userURL("math", 7))
}
