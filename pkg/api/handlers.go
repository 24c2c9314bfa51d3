package api

import (
	"github.com/adfharrison1/go-catalog/pkg/catalog"
)

// DefaultMaxUploadBytes bounds the size of an uploaded book file
const DefaultMaxUploadBytes int64 = 32 << 20

// Handler provides HTTP handlers for the catalog API
type Handler struct {
	catalog        *catalog.Catalog
	maxUploadBytes int64
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithMaxUploadBytes limits the multipart upload size. Non-positive values keep the default.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(c *catalog.Catalog, opts ...HandlerOption) *Handler {
	h := &Handler{
		catalog:        c,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
