package domain

import "errors"

var (
	// ErrProductNotFound is returned when upstream has no record for a barcode or query
	ErrProductNotFound = errors.New("product not found in Open Food Facts database")

	// ErrInvalidBarcode is returned when a barcode fails format validation.
	// This is the only error surfaced to UI consumers before a lookup.
	ErrInvalidBarcode = errors.New("invalid barcode format")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrOFFAPIFailure is returned when an Open Food Facts API request fails
	ErrOFFAPIFailure = errors.New("Open Food Facts API request failed")

	// ErrUSDAAPIFailure is returned when a USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrQuotaExceeded marks a quota/rate-limit-class failure from the
	// generative collaborator; once observed, generation stays disabled
	// for the rest of the process lifetime.
	ErrQuotaExceeded = errors.New("generation quota exceeded")

	// ErrGenerationFailure is returned when description generation fails
	// for a non-quota reason
	ErrGenerationFailure = errors.New("description generation failed")
)
