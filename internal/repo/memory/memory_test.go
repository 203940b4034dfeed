package memory

import (
	"context"
	"testing"
	"time"

	"auction-management-api/internal/common"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newParticipant(t *testing.T, s *Store, identityNumber, name, email string) uuid.UUID {
	t.Helper()

	id, err := s.CreateParticipant(context.Background(), &entity.CreateParticipantInput{
		IdentityNumber: identityNumber,
		Name:           name,
		Email:          email,
		BirthDate:      time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	return id
}

func newAuction(t *testing.T, s *Store, status common.AuctionStatus, minimumBid float64) uuid.UUID {
	t.Helper()

	now := time.Now().UTC()
	id, err := s.CreateAuction(context.Background(), &entity.Auction{
		Name:       "vintage lot",
		MinimumBid: minimumBid,
		StartTime:  now.Add(-time.Hour),
		EndTime:    now.Add(time.Hour),
		Status:     status,
	})
	require.NoError(t, err)

	return id
}

func placeBid(t *testing.T, s *Store, auctionId, participantId uuid.UUID, amount float64) uuid.UUID {
	t.Helper()

	id, err := s.CreateBid(context.Background(), &entity.Bid{
		Amount:        amount,
		PlacedAt:      time.Now().UTC(),
		AuctionId:     auctionId,
		ParticipantId: participantId,
	})
	require.NoError(t, err)

	return id
}

func TestStore_ParticipantLookups(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id := newParticipant(t, s, "12345678901", "Alice", "alice@example.com")

	byId, err := s.GetParticipantById(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Alice", byId.Name)
	require.False(t, byId.RegisteredAt.IsZero())

	byIdentity, err := s.GetParticipantByIdentityNumber(ctx, "12345678901")
	require.NoError(t, err)
	require.Equal(t, id, byIdentity.Id)

	byEmail, err := s.GetParticipantByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.Id)

	_, err = s.GetParticipantById(ctx, uuid.New())
	require.ErrorIs(t, err, repo_errors.ErrNotFound)
}

func TestStore_ParticipantGuard(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	participantId := newParticipant(t, s, "12345678901", "Alice", "alice@example.com")
	auctionId := newAuction(t, s, common.StatusOpen, 100)

	// mutable before any bid
	current, err := s.GetParticipantById(ctx, participantId)
	require.NoError(t, err)
	current.Name = "Alice Updated"
	require.NoError(t, s.UpdateParticipant(ctx, current))

	placeBid(t, s, auctionId, participantId, 150)

	current.Name = "Alice Again"
	require.ErrorIs(t, s.UpdateParticipant(ctx, current), repo_errors.ErrParticipantHasBids)
	require.ErrorIs(t, s.DeleteParticipant(ctx, participantId), repo_errors.ErrParticipantHasBids)

	// the record is untouched
	stored, err := s.GetParticipantById(ctx, participantId)
	require.NoError(t, err)
	require.Equal(t, "Alice Updated", stored.Name)
}

func TestStore_ListParticipantsFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	alice := newParticipant(t, s, "12345678901", "Alice", "alice@example.com")
	newParticipant(t, s, "98765432109", "Bob", "bob@example.com")

	auctionId := newAuction(t, s, common.StatusOpen, 100)
	placeBid(t, s, auctionId, alice, 150)

	all, err := s.ListParticipants(ctx, &entity.ParticipantFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	named, err := s.ListParticipants(ctx, &entity.ParticipantFilter{NameContains: "ali"})
	require.NoError(t, err)
	require.Len(t, named, 1)
	require.Equal(t, alice, named[0].Id)

	hasBids := true
	bidders, err := s.ListParticipants(ctx, &entity.ParticipantFilter{HasBids: &hasBids})
	require.NoError(t, err)
	require.Len(t, bidders, 1)
	require.Equal(t, alice, bidders[0].Id)

	hasBids = false
	idle, err := s.ListParticipants(ctx, &entity.ParticipantFilter{HasBids: &hasBids})
	require.NoError(t, err)
	require.Len(t, idle, 1)
	require.Equal(t, "Bob", idle[0].Name)
}

func TestStore_TransitionAuctionStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id := newAuction(t, s, common.StatusInactive, 100)

	written, err := s.TransitionAuctionStatus(ctx, id, common.StatusInactive, common.StatusOpen, nil)
	require.NoError(t, err)
	require.True(t, written)

	// second racer loses: the from-state no longer matches
	written, err = s.TransitionAuctionStatus(ctx, id, common.StatusInactive, common.StatusOpen, nil)
	require.NoError(t, err)
	require.False(t, written)

	winnerId := uuid.New()
	written, err = s.TransitionAuctionStatus(ctx, id, common.StatusOpen, common.StatusFinalized, &winnerId)
	require.NoError(t, err)
	require.True(t, written)

	auction, err := s.GetAuctionById(ctx, id)
	require.NoError(t, err)
	require.Equal(t, common.StatusFinalized, auction.Status)
	require.NotNil(t, auction.WinnerId)
	require.Equal(t, winnerId, *auction.WinnerId)

	_, err = s.TransitionAuctionStatus(ctx, uuid.New(), common.StatusInactive, common.StatusOpen, nil)
	require.ErrorIs(t, err, repo_errors.ErrNotFound)
}

func TestStore_InactiveOnlyMutations(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id := newAuction(t, s, common.StatusInactive, 100)

	auction, err := s.GetAuctionById(ctx, id)
	require.NoError(t, err)
	auction.Name = "renamed lot"

	written, err := s.UpdateInactiveAuction(ctx, auction)
	require.NoError(t, err)
	require.True(t, written)

	_, err = s.TransitionAuctionStatus(ctx, id, common.StatusInactive, common.StatusOpen, nil)
	require.NoError(t, err)

	auction.Name = "renamed twice"
	written, err = s.UpdateInactiveAuction(ctx, auction)
	require.NoError(t, err)
	require.False(t, written)

	written, err = s.DeleteInactiveAuction(ctx, id)
	require.NoError(t, err)
	require.False(t, written)

	stored, err := s.GetAuctionById(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "renamed lot", stored.Name)
}

func TestStore_BidOrdering(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	alice := newParticipant(t, s, "12345678901", "Alice", "alice@example.com")
	bob := newParticipant(t, s, "98765432109", "Bob", "bob@example.com")
	auctionId := newAuction(t, s, common.StatusOpen, 100)

	placeBid(t, s, auctionId, alice, 100)
	placeBid(t, s, auctionId, bob, 150)
	lastId := placeBid(t, s, auctionId, alice, 200)

	last, err := s.GetLastBidForAuction(ctx, auctionId)
	require.NoError(t, err)
	require.Equal(t, lastId, last.Id)
	require.Equal(t, 200.0, last.Amount)

	highest, err := s.GetHighestBidForAuction(ctx, auctionId)
	require.NoError(t, err)
	require.Equal(t, 200.0, highest.Amount)

	ascending, err := s.ListBidsByAuction(ctx, auctionId, true)
	require.NoError(t, err)
	require.Len(t, ascending, 3)
	require.Equal(t, []float64{100, 150, 200}, []float64{ascending[0].Amount, ascending[1].Amount, ascending[2].Amount})

	descending, err := s.ListBidsByAuction(ctx, auctionId, false)
	require.NoError(t, err)
	require.Equal(t, 200.0, descending[0].Amount)

	count, err := s.CountBidsByAuction(ctx, auctionId)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	aliceBids, err := s.ListBidsByParticipant(ctx, alice, &auctionId)
	require.NoError(t, err)
	require.Len(t, aliceBids, 2)
}

func TestStore_CreateBidRequiresAuction(t *testing.T) {
	s := NewStore()

	participantId := newParticipant(t, s, "12345678901", "Alice", "alice@example.com")

	_, err := s.CreateBid(context.Background(), &entity.Bid{
		Amount:        100,
		AuctionId:     uuid.New(),
		ParticipantId: participantId,
	})
	require.ErrorIs(t, err, repo_errors.ErrNotFound)
}

func TestStore_SweepableAndPendingListings(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	inactive := newAuction(t, s, common.StatusInactive, 100)
	open := newAuction(t, s, common.StatusOpen, 100)
	newAuction(t, s, common.StatusExpired, 100)

	winner := newParticipant(t, s, "12345678901", "Alice", "alice@example.com")
	finalized := newAuction(t, s, common.StatusOpen, 100)
	placeBid(t, s, finalized, winner, 150)
	written, err := s.TransitionAuctionStatus(ctx, finalized, common.StatusOpen, common.StatusFinalized, &winner)
	require.NoError(t, err)
	require.True(t, written)

	sweepable, err := s.ListSweepableAuctions(ctx)
	require.NoError(t, err)
	ids := make(map[uuid.UUID]bool, len(sweepable))
	for _, a := range sweepable {
		ids[a.Id] = true
	}
	require.True(t, ids[inactive])
	require.True(t, ids[open])
	require.Len(t, sweepable, 2)

	pending, err := s.ListAuctionsPendingNotification(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, finalized, pending[0].Id)
}

func TestStore_DeleteInactiveAuctionCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id := newAuction(t, s, common.StatusInactive, 100)

	written, err := s.DeleteInactiveAuction(ctx, id)
	require.NoError(t, err)
	require.True(t, written)

	_, err = s.GetAuctionById(ctx, id)
	require.ErrorIs(t, err, repo_errors.ErrNotFound)
}
