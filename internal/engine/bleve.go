package engine

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/cockroachdb/errors"

	"cheesefinder/internal/domain"
)

const nameField = "name"

// bleveDocument is what gets indexed per catalog entry
type bleveDocument struct {
	Name string `json:"name"`
}

// Bleve ranks entries with an in-memory bleve index. It tolerates one typo
// per term and also matches prefixes and partial words.
type Bleve struct {
	index  bleve.Index
	names  []string
	logger *slog.Logger
}

// NewBleve builds an in-memory index over cat
func NewBleve(cat Catalog, logger *slog.Logger) (*Bleve, error) {
	if logger == nil {
		logger = slog.Default()
	}

	indexMapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, errors.Wrap(err, "creating bleve index")
	}

	batch := idx.NewBatch()
	for i, name := range cat.Names {
		if err := batch.Index(strconv.Itoa(i), bleveDocument{Name: name}); err != nil {
			_ = idx.Close()
			return nil, errors.Wrapf(err, "indexing %q", name)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, errors.Wrap(err, "executing index batch")
	}

	return &Bleve{index: idx, names: cat.Names, logger: logger}, nil
}

func (b *Bleve) Search(q string) domain.SearchResult {
	start := time.Now()
	result := domain.SearchResult{Query: q, Items: []string{}}

	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 {
		result.Took = time.Since(start)
		return result
	}

	match := bleve.NewMatchQuery(q)
	match.SetField(nameField)
	match.SetFuzziness(1)
	clauses := []query.Query{match}
	for _, term := range terms {
		prefix := bleve.NewPrefixQuery(term)
		prefix.SetField(nameField)
		wildcard := bleve.NewWildcardQuery("*" + term + "*")
		wildcard.SetField(nameField)
		clauses = append(clauses, prefix, wildcard)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(clauses...))
	req.Size = len(b.names)

	res, err := b.index.Search(req)
	if err != nil {
		b.logger.Error("bleve search failed", "query", q, "error", err)
		result.Took = time.Since(start)
		return result
	}

	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(b.names) {
			continue
		}
		result.Items = append(result.Items, b.names[i])
	}
	result.Took = time.Since(start)
	return result
}

// Close releases the index
func (b *Bleve) Close() error {
	return b.index.Close()
}
