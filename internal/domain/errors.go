package domain

import "errors"

var (
	// ErrInvalidInput signals a missing or invalid client-supplied value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrFetchFailed signals that a document URL could not be downloaded.
	ErrFetchFailed = errors.New("document fetch failed")
	// ErrUnreadableDocument signals that the uploaded bytes are not a readable PDF.
	ErrUnreadableDocument = errors.New("unreadable document")
	// ErrInvalidQuery signals invalid retrieval query parameters.
	ErrInvalidQuery = errors.New("invalid query parameter")
	// ErrStorage signals a scratch-file persistence failure.
	ErrStorage = errors.New("storage failure")
	// ErrEmbeddingUnavailable signals an embedding provider failure.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	// ErrGenerationUnavailable signals a text-generation provider failure.
	ErrGenerationUnavailable = errors.New("generation provider unavailable")
	// ErrMalformedReport signals generation output that fails the report schema.
	ErrMalformedReport = errors.New("malformed report output")
)
