package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type Participant struct {
	Id             uuid.UUID `json:"id" db:"id"`
	IdentityNumber string    `json:"identityNumber" db:"identity_number"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	BirthDate      time.Time `json:"birthDate" db:"birth_date"`
	RegisteredAt   time.Time `json:"registeredAt" db:"registered_at"`
}

// service + repo input model
type CreateParticipantInput struct {
	IdentityNumber string // given, normalized to 11 digits
	Name           string // given, trimmed
	Email          string // given, normalized
	BirthDate      time.Time
	// Id UUID sets automatically
	// RegisteredAt sets automatically
}

// Fields left nil keep their current value.
type UpdateParticipantInput struct {
	IdentityNumber *string
	Name           *string
	Email          *string
	BirthDate      *time.Time
}

type ParticipantFilter struct {
	NameContains string
	HasBids      *bool
}

// controller model
type ParticipantOutputModel struct {
	Id             string `json:"id"`
	IdentityNumber string `json:"identityNumber"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	BirthDate      string `json:"birthDate"`
	RegisteredAt   string `json:"registeredAt"`
}

// Derived registry aggregates, never stored. Nil amounts mean the
// participant has placed no bids yet.
type ParticipantStatistics struct {
	TotalBids            int      `json:"totalBids"`
	TotalSpent           float64  `json:"totalSpent"`
	AuctionsParticipated int      `json:"auctionsParticipated"`
	AuctionsWon          int      `json:"auctionsWon"`
	HighestBid           *float64 `json:"highestBid"`
	LowestBid            *float64 `json:"lowestBid"`
}
