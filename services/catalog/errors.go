package catalog

import "errors"

var (
	// ErrCredentialUnavailable means the catalog access token could not be
	// obtained or refreshed. Every resolver call fails with this until the
	// credentials are fixed.
	ErrCredentialUnavailable = errors.New("catalog credentials unavailable")

	// ErrCatalogUnreachable means the catalog request failed in transport or
	// returned a non-2xx status. Distinct from a confirmed no-match: the
	// caller could not determine anything and the result is never cached.
	ErrCatalogUnreachable = errors.New("catalog unreachable")

	// ErrNoMatch means the catalog confirmed it has no entry for the title.
	// A legitimate terminal state; negatively cached.
	ErrNoMatch = errors.New("no catalog match")

	// ErrEmptyTitle is a precondition violation; callers must validate first.
	ErrEmptyTitle = errors.New("empty title")
)
