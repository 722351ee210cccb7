package dumpsql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnsafePrefix(t *testing.T) {
	t.Parallel()

	_, err := New("so; DROP TABLE users", Postgres)
	require.Error(t, err)
}

func TestQueriesUsePrefixAndDialect(t *testing.T) {
	t.Parallel()

	pg, err := New("stackoverflow", Postgres)
	require.NoError(t, err)
	assert.Contains(t, pg.Post, "FROM stackoverflow_posts WHERE id = $1")
	assert.Contains(t, pg.SearchTag, "LIMIT $2")
	assert.Contains(t, pg.UsersIn(3), "id = ANY($1)")

	lite, err := New("unix", SQLite)
	require.NoError(t, err)
	assert.Contains(t, lite.Comments, "FROM unix_comments WHERE postid = ?")
	assert.Contains(t, lite.UsersIn(3), "id IN (?,?,?)")
}

func TestPatternsEscapeLikeMetacharacters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "%%", ContainsPattern(""))
	assert.Equal(t, `%100\%%`, ContainsPattern("100%"))
	assert.Equal(t, `%snake\_case%`, ContainsPattern("snake_case"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
	assert.Equal(t, "%<c++>%", TagPattern("c++"))
}

func TestNullTimeScan(t *testing.T) {
	t.Parallel()

	var got *time.Time
	nt := TimeInto(&got)

	require.NoError(t, nt.Scan(nil))
	assert.Nil(t, got)

	require.NoError(t, nt.Scan("2010-09-13T19:16:26.763"))
	require.NotNil(t, got)
	assert.Equal(t, 2010, got.Year())

	require.NoError(t, nt.Scan([]byte("2011-01-02 03:04:05")))
	assert.Equal(t, time.January, got.Month())

	now := time.Unix(1700000000, 0).UTC()
	require.NoError(t, nt.Scan(now))
	assert.True(t, now.Equal(*got))

	require.Error(t, nt.Scan("yesterday"))
	require.Error(t, nt.Scan(42))
}
