package service

import "errors"

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrBidNotFound         = errors.New("bid not found")

	ErrIdentityNumberTaken = errors.New("identity number is already registered")
	ErrEmailTaken          = errors.New("email is already registered")

	// Mutation attempted on a participant that owns at least one bid.
	ErrImmutableParticipant = errors.New("participant with bids can't be changed or removed")

	// Operation attempted against the wrong lifecycle state: bidding on a
	// non-OPEN auction, or mutating a non-INACTIVE one.
	ErrInvalidAuctionState = errors.New("operation not allowed in the auction's current state")

	ErrBidBelowFloor     = errors.New("bid is below the auction's minimum")
	ErrBidTooLow         = errors.New("bid doesn't exceed the last bid")
	ErrConsecutiveBidder = errors.New("participant placed the previous bid")
)
