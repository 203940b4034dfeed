package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model. Bids are immutable once written; there is no update input.
type Bid struct {
	Id            uuid.UUID `json:"id" db:"id"`
	Amount        float64   `json:"amount" db:"amount"`
	PlacedAt      time.Time `json:"placedAt" db:"placed_at"`
	AuctionId     uuid.UUID `json:"auctionId" db:"auction_id"`
	ParticipantId uuid.UUID `json:"participantId" db:"participant_id"`
}

// controller model
type BidOutputModel struct {
	Id            string  `json:"id"`
	Amount        float64 `json:"amount"`
	PlacedAt      string  `json:"placedAt"`
	AuctionId     string  `json:"auctionId"`
	ParticipantId string  `json:"participantId"`
}

// Snapshot of an existing bid inside a simulation result.
type BidSnapshot struct {
	Amount        float64   `json:"amount"`
	ParticipantId uuid.UUID `json:"participantId"`
	PlacedAt      time.Time `json:"placedAt"`
}

// Outcome of a dry-run bid: the same checks as placing one, without the insert.
type BidSimulation struct {
	Valid           bool         `json:"valid"`
	Reason          string       `json:"reason"`
	MinimumAccepted *float64     `json:"minimumAccepted"`
	LastBid         *BidSnapshot `json:"lastBid"`
	CallersLastBid  *BidSnapshot `json:"callersLastBid"`
}

// Highest, lowest and current amounts of one auction. CurrentBid falls back
// to the floor while the auction has no bids.
type BidRange struct {
	HighestBid *float64 `json:"highestBid"`
	LowestBid  *float64 `json:"lowestBid"`
	CurrentBid float64  `json:"currentBid"`
	TotalBids  int      `json:"totalBids"`
}

// Chronological history row joined with the bidder's registry record.
type BidHistoryEntry struct {
	BidId               uuid.UUID `json:"bidId"`
	Amount              float64   `json:"amount"`
	PlacedAt            time.Time `json:"placedAt"`
	ParticipantId       uuid.UUID `json:"participantId"`
	ParticipantName     string    `json:"participantName"`
	ParticipantIdentity string    `json:"participantIdentity"`
}

// One leaderboard row: a participant's best amount in a single auction.
type RankingEntry struct {
	Position        int       `json:"position"`
	ParticipantId   uuid.UUID `json:"participantId"`
	ParticipantName string    `json:"participantName"`
	TopAmount       float64   `json:"topAmount"`
	TotalBids       int       `json:"totalBids"`
	Winner          bool      `json:"winner"`
}
