package entity

import (
	"time"

	"auction-management-api/internal/common"

	"github.com/google/uuid"
)

// db model
type Auction struct {
	Id         uuid.UUID            `json:"id" db:"id"`
	Name       string               `json:"name" db:"name"`
	MinimumBid float64              `json:"minimumBid" db:"minimum_bid"`
	StartTime  time.Time            `json:"startTime" db:"start_time"`
	EndTime    time.Time            `json:"endTime" db:"end_time"`
	Status     common.AuctionStatus `json:"status" db:"status"`
	WinnerId   *uuid.UUID           `json:"winnerId" db:"winner_id"`
	CreatedAt  time.Time            `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateAuctionInput struct {
	Name       string // given, trimmed
	MinimumBid float64
	StartTime  time.Time
	EndTime    time.Time
	// AllowPast lets the start time lie in the past. Reserved for in-process
	// callers (tests, backfill); never bound from the HTTP layer.
	AllowPast bool
	// Status sets to INACTIVE, Id and CreatedAt set automatically
}

// Fields left nil keep their current value.
type UpdateAuctionInput struct {
	Name       *string
	MinimumBid *float64
	StartTime  *time.Time
	EndTime    *time.Time
}

type AuctionFilter struct {
	Status    *common.AuctionStatus
	StartFrom *time.Time
	StartTo   *time.Time
	EndFrom   *time.Time
	EndTo     *time.Time
}

// controller model
type AuctionOutputModel struct {
	Id         string  `json:"id"`
	Name       string  `json:"name"`
	MinimumBid float64 `json:"minimumBid"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Status     string  `json:"status"`
	WinnerId   string  `json:"winnerId,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// Derived per-auction aggregates. CurrentBid falls back to the floor while
// the auction has no bids.
type AuctionStatistics struct {
	TotalBids       int      `json:"totalBids"`
	DistinctBidders int      `json:"distinctBidders"`
	HighestBid      *float64 `json:"highestBid"`
	LowestBid       *float64 `json:"lowestBid"`
	CurrentBid      float64  `json:"currentBid"`
}

// Tallies of one lifecycle sweep pass.
type SweepResult struct {
	Opened            int `json:"opened"`
	Finalized         int `json:"finalized"`
	Expired           int `json:"expired"`
	NotificationsSent int `json:"notificationsSent"`
}

// A finalized auction whose winner still awaits notification.
type PendingWinner struct {
	Auction       Auction
	Participant   Participant
	WinningAmount float64
}
