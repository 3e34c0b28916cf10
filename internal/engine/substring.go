package engine

import (
	"strings"
	"time"

	"cheesefinder/internal/domain"
)

// Substring matches every entry containing the query, ignoring case, in
// catalog order
type Substring struct {
	names   []string
	lowered []string
}

// NewSubstring indexes cat for case-insensitive containment matching
func NewSubstring(cat Catalog) *Substring {
	lowered := make([]string, len(cat.Names))
	for i, n := range cat.Names {
		lowered[i] = strings.ToLower(n)
	}
	return &Substring{names: cat.Names, lowered: lowered}
}

func (s *Substring) Search(query string) domain.SearchResult {
	start := time.Now()
	q := strings.ToLower(query)

	items := []string{}
	for i, l := range s.lowered {
		if strings.Contains(l, q) {
			items = append(items, s.names[i])
		}
	}
	return domain.SearchResult{Query: query, Items: items, Took: time.Since(start)}
}
