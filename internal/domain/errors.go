package domain

import "errors"

// Sentinel errors for cross-source error classification.
// Inventory sources should wrap these so the CLI can handle error categories
// uniformly without knowing which backend produced them.
//
//	return fmt.Errorf("failed to list prefixes: %w", domain.ErrUnauthorized)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the inventory throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates the inventory is temporarily unable to
	// answer (502, 503, 504).
	ErrUnavailable = errors.New("inventory unavailable")

	// ErrMalformedResponse indicates the inventory answered but the payload
	// could not be decoded. It separates "unreachable" from "unparsable"
	// so the two can be reported with different exit statuses.
	ErrMalformedResponse = errors.New("malformed response")
)
