package common

import "fmt"

// AuctionStatus is the closed set of lifecycle states an auction can be in.
type AuctionStatus string

const (
	StatusInactive  AuctionStatus = "INACTIVE"
	StatusOpen      AuctionStatus = "OPEN"
	StatusFinalized AuctionStatus = "FINALIZED"
	StatusExpired   AuctionStatus = "EXPIRED"
)

// ParseAuctionStatus maps a stored string onto the enum. Unknown values are
// rejected so a bad row never flows through a transition site unnoticed.
func ParseAuctionStatus(s string) (AuctionStatus, error) {
	switch AuctionStatus(s) {
	case StatusInactive, StatusOpen, StatusFinalized, StatusExpired:
		return AuctionStatus(s), nil
	}

	return "", fmt.Errorf("unknown auction status %q", s)
}

// IsTerminal reports whether the status admits no further transitions.
func (s AuctionStatus) IsTerminal() bool {
	switch s {
	case StatusFinalized, StatusExpired:
		return true
	case StatusInactive, StatusOpen:
		return false
	}

	return false
}

func (s AuctionStatus) String() string {
	return string(s)
}
