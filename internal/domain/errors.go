package domain

import "errors"

var (
	// ErrPlayerNotFound means a display name did not resolve to a player id,
	// even after refreshing the player directory.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrNoData means a query produced zero usable records after any
	// season fallback. Distinct from transport errors so callers can tell
	// "this player has no clutch history" from "the upstream call failed".
	ErrNoData = errors.New("no clutch data found")

	// ErrMalformedRecord means an input record failed validation
	// (negative counting stat, minutes, or games played).
	ErrMalformedRecord = errors.New("malformed stat record")
)
