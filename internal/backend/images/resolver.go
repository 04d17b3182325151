// Package images maps compound names to their display images.
package images

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jo-hoe/sialiccatalog/internal/backend/assets"
)

const (
	// DefaultExtension is appended to a compound name to form its image file
	// name. The match is case-sensitive.
	DefaultExtension = ".PNG"
	// DefaultURLPrefix is where the HTTP layer serves compound images.
	DefaultURLPrefix = "/compound_images"
)

type Resolver struct {
	store     assets.Store
	urlPrefix string
	extension string
}

func NewResolver(store assets.Store, urlPrefix, extension string) *Resolver {
	if urlPrefix == "" {
		urlPrefix = DefaultURLPrefix
	}
	if extension == "" {
		extension = DefaultExtension
	}
	return &Resolver{
		store:     store,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		extension: extension,
	}
}

// FileName is the expected image file for a compound.
func (r *Resolver) FileName(compoundName string) string {
	return compoundName + r.extension
}

// Resolve returns the public reference of the compound's image, or false when
// the image does not exist. Lookup failures count as a missing image.
func (r *Resolver) Resolve(ctx context.Context, compoundName string) (string, bool) {
	if compoundName == "" || r.store == nil {
		return "", false
	}
	fileName := r.FileName(compoundName)
	exists, err := r.store.Exists(ctx, fileName)
	if err != nil {
		slog.Warn("image lookup failed", "compound", compoundName, "file", fileName, "error", err)
		return "", false
	}
	if !exists {
		return "", false
	}
	return r.urlPrefix + "/" + url.PathEscape(fileName), true
}
