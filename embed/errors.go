package embed

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCatalogRequired is returned when a catalog is not provided.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrInvalidHost indicates the configured service host is empty.
	ErrInvalidHost = errors.New("embedding host cannot be empty")

	// ErrInvalidModel indicates the configured model name is empty.
	ErrInvalidModel = errors.New("embedding model cannot be empty")
)
