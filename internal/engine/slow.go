package engine

import (
	"time"

	"cheesefinder/internal/domain"
)

// Slow adds a fixed delay in front of another engine, standing in for a
// remote lookup
type Slow struct {
	next  Engine
	delay time.Duration
}

func NewSlow(next Engine, delay time.Duration) *Slow {
	return &Slow{next: next, delay: delay}
}

func (s *Slow) Search(query string) domain.SearchResult {
	start := time.Now()
	time.Sleep(s.delay)
	r := s.next.Search(query)
	r.Took = time.Since(start)
	return r
}
