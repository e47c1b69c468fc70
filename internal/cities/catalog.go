package cities

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	SourceFile    = "file"
	SourceDefault = "default"
)

// DefaultCities is used when no catalog file can be read
var DefaultCities = []string{
	"Bogota",
	"Medellin",
	"Cali",
	"Barranquilla",
	"Cartagena",
}

// ErrEmptyCatalog is returned when a catalog file contains no city names
var ErrEmptyCatalog = errors.New("city catalog is empty")

// Catalog is an immutable list of candidate city names.
// It is built once at startup and shared read-only.
type Catalog struct {
	names  []string
	index  map[string]struct{}
	source string
}

// NewCatalog builds a catalog from names, dropping blanks and
// case-insensitive duplicates while keeping the first spelling.
func NewCatalog(names []string, source string) *Catalog {
	c := &Catalog{
		names:  make([]string, 0, len(names)),
		index:  make(map[string]struct{}, len(names)),
		source: source,
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := c.index[key]; ok {
			continue
		}
		c.index[key] = struct{}{}
		c.names = append(c.names, name)
	}

	return c
}

// Default returns the built-in catalog
func Default() *Catalog {
	return NewCatalog(DefaultCities, SourceDefault)
}

// Load reads a catalog file with one city per line. Blank lines and lines
// starting with # are ignored.
//
// Load always returns a usable catalog. If the file is missing, unreadable or
// empty, the built-in list is returned together with the error that caused
// the fallback so the caller can report it.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Default(), fmt.Errorf("failed to open city catalog: %w", err)
	}
	defer file.Close()

	names, err := parse(file)
	if err != nil {
		return Default(), fmt.Errorf("failed to read city catalog %s: %w", path, err)
	}

	catalog := NewCatalog(names, SourceFile)
	if catalog.Len() == 0 {
		return Default(), fmt.Errorf("%s: %w", path, ErrEmptyCatalog)
	}

	return catalog, nil
}

func parse(r io.Reader) ([]string, error) {
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
		return nil, err
	}

	return names, nil
}

// Names returns a copy of the city names in catalog order
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Contains reports whether name is in the catalog, ignoring case
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Len returns the number of cities
func (c *Catalog) Len() int {
	return len(c.names)
}

// Source reports whether the catalog came from a file or the built-in list
func (c *Catalog) Source() string {
	return c.source
}
