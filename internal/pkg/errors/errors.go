package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownArchetype signals a learner archetype tag outside the
	// closed set. This is a configuration error and always aborts the
	// caller; archetypes are never silently defaulted.
	ErrUnknownArchetype = errors.New("unknown learner archetype")
	// ErrUnknownProfile signals a term profile key outside the registry.
	ErrUnknownProfile = errors.New("unknown term profile")
	// ErrBackfillDepthExceeded signals a term start further in the past
	// than the configured backfill limit allows.
	ErrBackfillDepthExceeded = errors.New("backfill depth exceeded")
	// ErrMalformedDistribution signals invalid truncated-normal
	// parameters (non-positive stddev or an empty [min,max] interval).
	ErrMalformedDistribution = errors.New("malformed distribution parameters")
)
