package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrEmptyCatalog is returned when the catalog source yields no records
	ErrEmptyCatalog = errors.New("catalog source is empty")

	// ErrStoreUnavailable is returned when the product store cannot be reached
	ErrStoreUnavailable = errors.New("product store unavailable")

	// ErrSearchUnavailable is returned when the search index cannot be reached
	ErrSearchUnavailable = errors.New("search index unavailable")
)
