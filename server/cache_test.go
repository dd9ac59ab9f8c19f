package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbbperft/qbb"
)

func TestResultCacheEvictsLeastRecent(t *testing.T) {
	c := newResultCache(2)
	a, b, d := cacheKey{1, 3}, cacheKey{2, 3}, cacheKey{3, 3}
	rows := []qbb.RootCount{{Notation: "e2e4", Nodes: 600}}

	c.put(a, rows, 600)
	c.put(b, nil, 20)
	_, _, ok := c.get(a)
	require.True(t, ok)

	c.put(d, nil, 400)
	assert.Equal(t, 2, c.count())
	_, _, ok = c.get(b)
	assert.False(t, ok, "b was least recently used")

	got, total, ok := c.get(a)
	require.True(t, ok)
	assert.Equal(t, uint64(600), total)
	assert.Equal(t, rows, got)
}

func TestResultCacheDisabled(t *testing.T) {
	c := newResultCache(0)
	c.put(cacheKey{1, 1}, nil, 20)
	_, _, ok := c.get(cacheKey{1, 1})
	assert.False(t, ok)
	assert.Zero(t, c.count())
}
