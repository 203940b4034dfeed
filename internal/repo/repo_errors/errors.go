package repo_errors

import "errors"

var (
	ErrNotFound = errors.New("entity not found")

	// Returned by participant mutations when the bid-count guard trips
	// inside the mutating transaction.
	ErrParticipantHasBids = errors.New("participant has bids")
)
