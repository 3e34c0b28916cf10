package engine

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:embed cheeses.txt
var defaultCatalog string

// ErrEmptyCatalog is returned when a catalog source has no entries
var ErrEmptyCatalog = errors.New("catalog has no entries")

// Catalog is the ordered list of names the engines search over
type Catalog struct {
	Names  []string
	Source string
}

// Len returns the number of entries
func (c Catalog) Len() int {
	return len(c.Names)
}

// ParseCatalog reads one name per line. Blank lines and lines starting with
// '#' are skipped; surrounding whitespace is trimmed.
func ParseCatalog(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading catalog")
	}
	if len(names) == 0 {
		return nil, ErrEmptyCatalog
	}
	return names, nil
}

// DefaultCatalog returns the built-in cheese list
func DefaultCatalog() Catalog {
	names, err := ParseCatalog(strings.NewReader(defaultCatalog))
	if err != nil {
		// the embedded file is part of the build
		panic(err)
	}
	return Catalog{Names: names, Source: "builtin"}
}

// LoadCatalog reads a catalog file, or returns the built-in one when path is empty
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, errors.Wrapf(err, "opening catalog %s", path)
	}
	defer f.Close()

	names, err := ParseCatalog(f)
	if err != nil {
		return Catalog{}, errors.Wrapf(err, "loading catalog %s", path)
	}
	return Catalog{Names: names, Source: path}, nil
}
