package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-management-api/internal/common"
	"auction-management-api/internal/entity"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func pendingWinner(auctionName, winnerName, email string, amount float64) entity.PendingWinner {
	winnerId := uuid.New()
	now := time.Now()

	return entity.PendingWinner{
		Auction: entity.Auction{
			Id:         uuid.New(),
			Name:       auctionName,
			MinimumBid: 100,
			StartTime:  now.Add(-2 * time.Hour),
			EndTime:    now.Add(-time.Hour),
			Status:     common.StatusFinalized,
			WinnerId:   &winnerId,
		},
		Participant: entity.Participant{
			Id:             winnerId,
			IdentityNumber: "12345678901",
			Name:           winnerName,
			Email:          email,
		},
		WinningAmount: amount,
	}
}

func TestNotifyPendingWinners(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNotifier := NewMockNotifier(ctrl)
	mockLister := NewMockWinnerLister(ctrl)

	first := pendingWinner("vintage lot", "Alice", "alice@example.com", 250)
	second := pendingWinner("estate sale", "Bob", "bob@example.com", 900)

	mockLister.EXPECT().
		PendingWinnerNotifications(gomock.Any()).
		Return([]entity.PendingWinner{first, second}, nil)
	mockNotifier.EXPECT().
		NotifyWinner(gomock.Any(), gomock.Any(), 250.0).
		Return(true)
	mockNotifier.EXPECT().
		NotifyWinner(gomock.Any(), gomock.Any(), 900.0).
		Return(false)

	report, err := NotifyPendingWinners(context.Background(), mockNotifier, mockLister)
	require.NoError(t, err)
	require.Equal(t, 1, report.Sent)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Details, 2)

	require.Equal(t, "vintage lot", report.Details[0].AuctionName)
	require.Equal(t, "Alice", report.Details[0].WinnerName)
	require.Equal(t, "alice@example.com", report.Details[0].Email)
	require.Equal(t, 250.0, report.Details[0].WinningAmount)
	require.Equal(t, "sent", report.Details[0].Status)

	require.Equal(t, "failed", report.Details[1].Status)
}

func TestNotifyPendingWinnersEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNotifier := NewMockNotifier(ctrl)
	mockLister := NewMockWinnerLister(ctrl)

	mockLister.EXPECT().
		PendingWinnerNotifications(gomock.Any()).
		Return([]entity.PendingWinner{}, nil)

	report, err := NotifyPendingWinners(context.Background(), mockNotifier, mockLister)
	require.NoError(t, err)
	require.Zero(t, report.Sent)
	require.Zero(t, report.Failed)
	require.Empty(t, report.Details)
}

func TestNotifyPendingWinnersListerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNotifier := NewMockNotifier(ctrl)
	mockLister := NewMockWinnerLister(ctrl)

	listErr := errors.New("store unavailable")
	mockLister.EXPECT().
		PendingWinnerNotifications(gomock.Any()).
		Return(nil, listErr)

	_, err := NotifyPendingWinners(context.Background(), mockNotifier, mockLister)
	require.ErrorIs(t, err, listErr)
}

func TestSimulatedEmailNotifier(t *testing.T) {
	n := NewSimulatedEmailNotifier()

	w := pendingWinner("vintage lot", "Alice", "alice@example.com", 250)
	require.True(t, n.NotifyWinner(&w.Auction, &w.Participant, w.WinningAmount))
}

func TestNewEmailNotifierFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		production bool
	}{
		{
			name:       "no_configuration_simulates",
			env:        map[string]string{},
			production: false,
		},
		{
			name: "credentials_enable_production",
			env: map[string]string{
				"EMAIL_USERNAME": "auctions@example.com",
				"EMAIL_PASSWORD": "secret",
			},
			production: true,
		},
		{
			name: "test_mode_overrides_credentials",
			env: map[string]string{
				"EMAIL_USERNAME": "auctions@example.com",
				"EMAIL_PASSWORD": "secret",
				"EMAIL_MODE":     "TEST",
			},
			production: false,
		},
		{
			name: "production_mode_without_credentials",
			env: map[string]string{
				"EMAIL_MODE": "production",
			},
			production: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"EMAIL_HOST", "EMAIL_PORT", "EMAIL_USERNAME", "EMAIL_PASSWORD", "EMAIL_MODE"} {
				t.Setenv(key, "")
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			n := NewEmailNotifierFromEnv()
			require.Equal(t, tt.production, n.production)
			require.Equal(t, defaultSMTPHost, n.host)
			require.Equal(t, defaultSMTPPort, n.port)
		})
	}
}

func TestWinnerBodyMentionsAuctionAndAmount(t *testing.T) {
	n := NewSimulatedEmailNotifier()
	w := pendingWinner("vintage lot", "Alice", "alice@example.com", 250)

	body := n.winnerBody(&w.Auction, &w.Participant, w.WinningAmount)
	require.Contains(t, body, "Alice")
	require.Contains(t, body, "250.00")
	require.Contains(t, body, "vintage lot")
	require.Contains(t, body, w.Auction.Id.String())
}
