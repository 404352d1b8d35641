package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Queue processor errors
	ErrInvalidTransition = errors.New("decision rejected: processor is not ready for a decision")
	ErrNoCurrentItem     = errors.New("no current item — load a batch first")
	ErrStaleBatch        = errors.New("batch result superseded by a newer load request")
	ErrInvalidDecision   = errors.New("decision kind not valid for this item kind")

	// Item errors
	ErrMalformedItem = errors.New("queue item lacks required fields for its kind")
	ErrItemNotFound  = errors.New("queue item not found")

	// Storage errors
	ErrStatsNotFound = errors.New("no persisted player stats")
)
