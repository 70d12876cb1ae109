package domain

import "errors"

var (
	// ErrCollectionFailed is returned when product search yields zero usable products
	ErrCollectionFailed = errors.New("product collection failed")

	// ErrSearchFailed is returned when the web-search model request fails
	ErrSearchFailed = errors.New("product search request failed")

	// ErrAdviceFailed is returned when the advice model request fails
	ErrAdviceFailed = errors.New("advice model request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
