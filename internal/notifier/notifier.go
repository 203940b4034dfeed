package notifier

import (
	"context"

	"auction-management-api/internal/entity"
)

//go:generate mockgen -source=notifier.go -destination=mock_notifier.go -package=notifier

// Notifier delivers a winner notification. The boolean reports delivery
// success; delivery problems never surface as errors to lifecycle callers.
type Notifier interface {
	NotifyWinner(auction *entity.Auction, winner *entity.Participant, winningAmount float64) bool
}

// WinnerLister yields finalized auctions whose winners await notification.
// The auction service implements it.
type WinnerLister interface {
	PendingWinnerNotifications(ctx context.Context) ([]entity.PendingWinner, error)
}

type DeliveryDetail struct {
	AuctionName   string  `json:"auctionName"`
	WinnerName    string  `json:"winnerName"`
	Email         string  `json:"email"`
	WinningAmount float64 `json:"winningAmount"`
	Status        string  `json:"status"`
}

type Report struct {
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Details []DeliveryDetail `json:"details"`
}

// NotifyPendingWinners walks every finalized auction with a winner and
// attempts delivery, reporting per-auction outcomes.
func NotifyPendingWinners(ctx context.Context, n Notifier, lister WinnerLister) (*Report, error) {
	pending, err := lister.PendingWinnerNotifications(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Details: make([]DeliveryDetail, 0, len(pending))}
	for i := range pending {
		p := &pending[i]
		detail := DeliveryDetail{
			AuctionName:   p.Auction.Name,
			WinnerName:    p.Participant.Name,
			Email:         p.Participant.Email,
			WinningAmount: p.WinningAmount,
		}

		if n.NotifyWinner(&p.Auction, &p.Participant, p.WinningAmount) {
			report.Sent++
			detail.Status = "sent"
		} else {
			report.Failed++
			detail.Status = "failed"
		}
		report.Details = append(report.Details, detail)
	}

	return report, nil
}
