// Package search implements autocomplete and search over the compound catalog
// using case-insensitive substring containment on the name column.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jo-hoe/sialiccatalog/internal/backend/catalog"
)

// ImageKey is the field under which a result's image reference is reported.
const ImageKey = "Image"

// ImageResolver maps a compound name to a display asset reference.
type ImageResolver interface {
	Resolve(ctx context.Context, compoundName string) (string, bool)
}

// Result is a matched compound with its image reference attached.
type Result struct {
	Compound catalog.Compound
	Image    string
	HasImage bool

	columns []string
}

// MarshalJSON emits every catalog column plus the image reference, null when absent.
func (r Result) MarshalJSON() ([]byte, error) {
	record := r.Compound.ToMap(r.columns)
	if r.HasImage {
		record[ImageKey] = r.Image
	} else {
		record[ImageKey] = nil
	}
	return json.Marshal(record)
}

type Engine struct {
	catalog *catalog.Catalog
	images  ImageResolver
	lowered []string
}

// NewEngine prepares an engine over an immutable catalog. images may be nil,
// in which case no result carries an image.
func NewEngine(c *catalog.Catalog, images ImageResolver) *Engine {
	engine := &Engine{catalog: c, images: images}
	if c != nil {
		engine.lowered = make([]string, c.Len())
		for i := 0; i < c.Len(); i++ {
			engine.lowered[i] = strings.ToLower(c.At(i).Name)
		}
	}
	return engine
}

// normalizeQuery trims and lowercases the query. ok is false for an empty or
// whitespace-only query.
func normalizeQuery(query string) (needle string, ok bool) {
	needle = strings.ToLower(strings.TrimSpace(query))
	return needle, needle != ""
}

// Suggest returns the names of every compound whose name contains query, in
// catalog order. An empty query yields an empty slice.
func (e *Engine) Suggest(query string) []string {
	needle, ok := normalizeQuery(query)
	if !ok {
		return []string{}
	}
	indices, err := e.match(needle)
	if err != nil {
		slog.Error("suggest: matching failed", "query", query, "error", err)
		return []string{}
	}
	return e.names(indices)
}

// Search returns the matching compounds with images resolved, and their names
// in the same order. A fault while matching is reported as an error with no results.
func (e *Engine) Search(ctx context.Context, query string) ([]Result, []string, error) {
	needle, ok := normalizeQuery(query)
	if !ok {
		return []Result{}, []string{}, nil
	}

	indices, err := e.match(needle)
	if err != nil {
		return []Result{}, []string{}, err
	}

	columns := e.catalog.Columns()
	results := make([]Result, 0, len(indices))
	for _, i := range indices {
		compound := e.catalog.At(i)
		result := Result{Compound: compound, columns: columns}
		if e.images != nil {
			result.Image, result.HasImage = e.images.Resolve(ctx, compound.Name)
		}
		results = append(results, result)
	}
	return results, e.names(indices), nil
}

// match returns catalog positions whose lowered name contains needle. Rows
// without a name never match.
func (e *Engine) match(needle string) (indices []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			indices = nil
			err = fmt.Errorf("matching on column %q failed: %v", e.nameColumn(), r)
		}
	}()

	if e.catalog == nil {
		return nil, fmt.Errorf("catalog is not loaded")
	}

	indices = []int{}
	for i, name := range e.lowered {
		if name == "" {
			continue
		}
		if strings.Contains(name, needle) {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

func (e *Engine) names(indices []int) []string {
	names := make([]string, 0, len(indices))
	for _, i := range indices {
		names = append(names, e.catalog.At(i).Name)
	}
	return names
}

func (e *Engine) nameColumn() string {
	if e.catalog == nil {
		return catalog.DefaultNameColumn
	}
	return e.catalog.NameColumn()
}
