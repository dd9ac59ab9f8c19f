package server

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"qbbperft/qbb"
)

type cacheKey struct {
	hash  uint64
	depth int
}

type cacheEntry struct {
	rows  []qbb.RootCount
	total uint64
}

// resultCache holds recent divide results keyed by position hash and depth.
// A size of zero disables it.
type resultCache struct {
	lru *lru.Cache[cacheKey, cacheEntry]
}

func newResultCache(size int) *resultCache {
	if size <= 0 {
		return &resultCache{}
	}
	c, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &resultCache{lru: c}
}

func (c *resultCache) get(k cacheKey) ([]qbb.RootCount, uint64, bool) {
	if c.lru == nil {
		return nil, 0, false
	}
	e, ok := c.lru.Get(k)
	return e.rows, e.total, ok
}

func (c *resultCache) put(k cacheKey, rows []qbb.RootCount, total uint64) {
	if c.lru == nil {
		return
	}
	c.lru.Add(k, cacheEntry{rows: rows, total: total})
}

func (c *resultCache) count() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
