package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want Tags
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "<c++>", want: Tags{"c++"}},
		{name: "many", raw: "<c++><performance><gcc>", want: Tags{"c++", "performance", "gcc"}},
		{name: "keeps order and duplicates", raw: "<b><a><b>", want: Tags{"b", "a", "b"}},
		{name: "missing brackets", raw: "go", want: Tags{"go"}},
		{name: "empty token", raw: "<a><><b>", want: Tags{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ParseTags(tc.raw))
		})
	}
}

func TestTagsStringRestoresWireFormat(t *testing.T) {
	t.Parallel()

	raw := "<c++><performance>"
	tags := ParseTags(raw)
	assert.Equal(t, raw, tags.String())
	assert.True(t, tags.Has("performance"))
	assert.False(t, tags.Has("perf"))
	assert.Equal(t, "", Tags(nil).String())
}

func TestPostAcceptedSentinel(t *testing.T) {
	t.Parallel()

	var p Post
	assert.Equal(t, NoAcceptedAnswer, p.Accepted())
	id := int64(42)
	p.AcceptedAnswerID = &id
	assert.Equal(t, int64(42), p.Accepted())
	assert.False(t, p.IsAnswer())
}

func TestCommentScoreOrZero(t *testing.T) {
	t.Parallel()

	score := int64(-3)
	assert.Equal(t, int64(0), Comment{}.ScoreOrZero())
	assert.Equal(t, int64(-3), Comment{Score: &score}.ScoreOrZero())
}
