package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickStableWithinDay(t *testing.T) {
	t.Parallel()

	morning := time.Date(2024, 3, 9, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)

	a, ok := Pick("stackoverflow", morning, 1000)
	require.True(t, ok)
	b, ok := Pick("stackoverflow", evening, 1000)
	require.True(t, ok)
	assert.Equal(t, a, b)
}

func TestPickAlwaysInRange(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		d := day.AddDate(0, 0, i)
		for _, count := range []int{1, 2, 7, 1000} {
			got, ok := Pick("unix", d, count)
			require.True(t, ok)
			require.GreaterOrEqual(t, got, 0)
			require.Less(t, got, count)
		}
	}
}

func TestPickEmptyCandidateSet(t *testing.T) {
	t.Parallel()

	_, ok := Pick("stackoverflow", time.Now(), 0)
	assert.False(t, ok)
	_, ok = Pick("stackoverflow", time.Now(), -1)
	assert.False(t, ok)
}

func TestSeedDependsOnSiteAndDate(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	h1, l1 := Seed("stackoverflow", day)
	h2, l2 := Seed("serverfault", day)
	h3, l3 := Seed("stackoverflow", day.AddDate(0, 0, 1))

	assert.False(t, h1 == h2 && l1 == l2)
	assert.False(t, h1 == h3 && l1 == l3)
}

func TestPickVariesAcrossDays(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := map[int]struct{}{}
	for i := 0; i < 60; i++ {
		got, _ := Pick("stackoverflow", day.AddDate(0, 0, i), 1000)
		seen[got] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
