package domain

import "time"

// SearchResult is what the search engine hands back for one query
type SearchResult struct {
	Query string
	Items []string
	Took  time.Duration
}

// Len returns the number of matched items
func (r SearchResult) Len() int {
	return len(r.Items)
}

// Empty reports whether nothing matched
func (r SearchResult) Empty() bool {
	return len(r.Items) == 0
}
