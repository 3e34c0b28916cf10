package engine

import (
	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"

	"cheesefinder/internal/domain"
)

// Cached remembers the results of recent queries
type Cached struct {
	next  Engine
	cache *lru.Cache[string, domain.SearchResult]
}

// NewCached wraps next with an LRU cache holding up to size queries
func NewCached(next Engine, size int) (*Cached, error) {
	cache, err := lru.New[string, domain.SearchResult](size)
	if err != nil {
		return nil, errors.Wrap(err, "creating result cache")
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Search(query string) domain.SearchResult {
	if r, ok := c.cache.Get(query); ok {
		// Took is measured again by the caller for cache hits
		r.Took = 0
		return r
	}
	r := c.next.Search(query)
	c.cache.Add(query, r)
	return r
}

// Purge drops every cached result
func (c *Cached) Purge() {
	c.cache.Purge()
}
