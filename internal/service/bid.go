package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"auction-management-api/internal/common"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/internal/validation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// The smallest step a new bid must add on top of the previous one.
const smallestIncrement = 0.01

type BidService struct {
	bidRepo         repo.Bid
	auctionRepo     repo.Auction
	participantRepo repo.Participant

	// shared with the lifecycle sweep: the read-last-bid-then-insert
	// sequence is atomic against concurrent bids and against finalization
	locks *auctionLocks
}

func NewBidService(repos *repo.Repositories, locks *auctionLocks) *BidService {
	return &BidService{
		bidRepo:         repos.Bid,
		auctionRepo:     repos.Auction,
		participantRepo: repos.Participant,
		locks:           locks,
	}
}

// PlaceBid validates and records a bid:
//  1. the amount must be positive
//  2. participant and auction must exist
//  3. the auction must be OPEN
//  4. the amount must reach the auction's floor
//  5. the amount must exceed the last bid, and the last bidder must be
//     someone else
//
// Everything from the status read to the insert runs under the auction's
// lock; no two bids are validated against the same last-bid snapshot.
func (s *BidService) PlaceBid(ctx context.Context, participantId, auctionId uuid.UUID, amount float64) (*entity.BidOutputModel, error) {
	amount, err := validation.BidAmount(amount)
	if err != nil {
		return nil, err
	}

	if _, err := s.participantRepo.GetParticipantById(ctx, participantId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}

		return nil, err
	}

	lock := s.locks.lock(auctionId)
	defer lock.Unlock()

	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	if auction.Status != common.StatusOpen {
		return nil, fmt.Errorf("%w: bids are only accepted while %s, auction is %s",
			ErrInvalidAuctionState, common.StatusOpen, auction.Status)
	}

	if amount < auction.MinimumBid {
		return nil, fmt.Errorf("%w: must be at least %.2f", ErrBidBelowFloor, auction.MinimumBid)
	}

	last, err := s.bidRepo.GetLastBidForAuction(ctx, auctionId)
	if err != nil && !errors.Is(err, repo_errors.ErrNotFound) {
		return nil, err
	}
	if last != nil {
		if amount <= last.Amount {
			return nil, fmt.Errorf("%w: must exceed %.2f", ErrBidTooLow, last.Amount)
		}
		if last.ParticipantId == participantId {
			return nil, ErrConsecutiveBidder
		}
	}

	bid := &entity.Bid{
		Amount:        amount,
		PlacedAt:      time.Now().UTC(),
		AuctionId:     auctionId,
		ParticipantId: participantId,
	}

	id, err := s.bidRepo.CreateBid(ctx, bid)
	if err != nil {
		return nil, err
	}

	created, err := s.bidRepo.GetBidById(ctx, id)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"bid":         id.String(),
		"auction":     auctionId.String(),
		"participant": participantId.String(),
		"amount":      amount,
	}).Info("bid accepted")

	return mapBid(created), nil
}

// SimulateBid runs the same checks as PlaceBid without persisting anything.
func (s *BidService) SimulateBid(ctx context.Context, participantId, auctionId uuid.UUID, amount float64) (*entity.BidSimulation, error) {
	result := &entity.BidSimulation{}

	amount, err := validation.BidAmount(amount)
	if err != nil {
		var vErr *validation.ValidationError
		if errors.As(err, &vErr) {
			result.Reason = vErr.Error()
			return result, nil
		}

		return nil, err
	}

	if _, err := s.participantRepo.GetParticipantById(ctx, participantId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			result.Reason = "participant not found"
			return result, nil
		}

		return nil, err
	}

	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			result.Reason = "auction not found"
			return result, nil
		}

		return nil, err
	}

	if auction.Status != common.StatusOpen {
		result.Reason = fmt.Sprintf("auction is not open (status: %s)", auction.Status)
		return result, nil
	}

	minimumAccepted := auction.MinimumBid

	last, err := s.bidRepo.GetLastBidForAuction(ctx, auctionId)
	if err != nil && !errors.Is(err, repo_errors.ErrNotFound) {
		return nil, err
	}
	if last != nil {
		result.LastBid = &entity.BidSnapshot{
			Amount:        last.Amount,
			ParticipantId: last.ParticipantId,
			PlacedAt:      last.PlacedAt,
		}

		if last.ParticipantId == participantId {
			result.Reason = "you placed the previous bid on this auction"
			return result, nil
		}

		minimumAccepted = last.Amount + smallestIncrement
	}

	result.MinimumAccepted = &minimumAccepted

	if amount < minimumAccepted {
		result.Reason = fmt.Sprintf("bid must be at least %.2f", minimumAccepted)
		return result, nil
	}

	own, err := s.bidRepo.ListBidsByParticipant(ctx, participantId, &auctionId)
	if err != nil {
		return nil, err
	}
	if len(own) > 0 {
		result.CallersLastBid = &entity.BidSnapshot{
			Amount:        own[0].Amount,
			ParticipantId: own[0].ParticipantId,
			PlacedAt:      own[0].PlacedAt,
		}
	}

	result.Valid = true
	result.Reason = "bid is valid"

	return result, nil
}

func (s *BidService) GetBidById(ctx context.Context, id uuid.UUID) (*entity.BidOutputModel, error) {
	bid, err := s.bidRepo.GetBidById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) ListBidsByAuction(ctx context.Context, auctionId uuid.UUID, ascending bool) ([]entity.BidOutputModel, error) {
	if err := s.requireAuction(ctx, auctionId); err != nil {
		return nil, err
	}

	bids, err := s.bidRepo.ListBidsByAuction(ctx, auctionId, ascending)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) ListBidsByParticipant(ctx context.Context, participantId uuid.UUID, auctionId *uuid.UUID) ([]entity.BidOutputModel, error) {
	if _, err := s.participantRepo.GetParticipantById(ctx, participantId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.ListBidsByParticipant(ctx, participantId, auctionId)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) GetBidRange(ctx context.Context, auctionId uuid.UUID) (*entity.BidRange, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.ListBidsByAuction(ctx, auctionId, true)
	if err != nil {
		return nil, err
	}

	r := &entity.BidRange{CurrentBid: auction.MinimumBid}
	if len(bids) == 0 {
		return r, nil
	}

	lowest := bids[0].Amount
	highest := bids[len(bids)-1].Amount
	r.LowestBid = &lowest
	r.HighestBid = &highest
	r.CurrentBid = highest
	r.TotalBids = len(bids)

	return r, nil
}

// NextMinimumAmount is the smallest amount the next bid may carry.
func (s *BidService) NextMinimumAmount(ctx context.Context, auctionId uuid.UUID) (float64, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return 0, ErrAuctionNotFound
		}

		return 0, err
	}

	last, err := s.bidRepo.GetLastBidForAuction(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return auction.MinimumBid, nil
		}

		return 0, err
	}

	return last.Amount + smallestIncrement, nil
}

func (s *BidService) GetBidHistory(ctx context.Context, auctionId uuid.UUID) ([]entity.BidHistoryEntry, error) {
	if err := s.requireAuction(ctx, auctionId); err != nil {
		return nil, err
	}

	return s.bidRepo.GetBidHistory(ctx, auctionId)
}

// GetRanking groups the auction's bids by participant and orders by best
// amount, descending. Ties can't happen between different participants
// (accepted amounts strictly increase), so position 1 is the would-be winner.
// The sort is stable on the order each participant reached their best amount.
func (s *BidService) GetRanking(ctx context.Context, auctionId uuid.UUID) ([]entity.RankingEntry, error) {
	if err := s.requireAuction(ctx, auctionId); err != nil {
		return nil, err
	}

	history, err := s.bidRepo.GetBidHistory(ctx, auctionId)
	if err != nil {
		return nil, err
	}

	type aggregate struct {
		entry     entity.RankingEntry
		reachedAt int // index in insertion order when the best amount was set
	}

	byParticipant := make(map[uuid.UUID]*aggregate)
	order := make([]uuid.UUID, 0)

	for i, h := range history {
		agg, ok := byParticipant[h.ParticipantId]
		if !ok {
			agg = &aggregate{
				entry: entity.RankingEntry{
					ParticipantId:   h.ParticipantId,
					ParticipantName: h.ParticipantName,
				},
				reachedAt: i,
			}
			byParticipant[h.ParticipantId] = agg
			order = append(order, h.ParticipantId)
		}

		agg.entry.TotalBids++
		if h.Amount > agg.entry.TopAmount {
			agg.entry.TopAmount = h.Amount
			agg.reachedAt = i
		}
	}

	ranking := make([]entity.RankingEntry, 0, len(order))
	aggregates := make([]*aggregate, 0, len(order))
	for _, id := range order {
		aggregates = append(aggregates, byParticipant[id])
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		if aggregates[i].entry.TopAmount != aggregates[j].entry.TopAmount {
			return aggregates[i].entry.TopAmount > aggregates[j].entry.TopAmount
		}
		return aggregates[i].reachedAt < aggregates[j].reachedAt
	})

	for i, agg := range aggregates {
		agg.entry.Position = i + 1
		agg.entry.Winner = i == 0
		ranking = append(ranking, agg.entry)
	}

	return ranking, nil
}

// CanPlaceBid reports whether a bid attempt by the participant would pass the
// turn-taking and state checks, with a human-readable reason.
func (s *BidService) CanPlaceBid(ctx context.Context, participantId, auctionId uuid.UUID) (bool, string, error) {
	if _, err := s.participantRepo.GetParticipantById(ctx, participantId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return false, "participant not found", nil
		}

		return false, "", err
	}

	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return false, "auction not found", nil
		}

		return false, "", err
	}

	if auction.Status != common.StatusOpen {
		return false, fmt.Sprintf("auction is not open (status: %s)", auction.Status), nil
	}

	last, err := s.bidRepo.GetLastBidForAuction(ctx, auctionId)
	if err != nil && !errors.Is(err, repo_errors.ErrNotFound) {
		return false, "", err
	}
	if last != nil && last.ParticipantId == participantId {
		return false, "you placed the previous bid on this auction", nil
	}

	return true, "bid can be placed", nil
}

func (s *BidService) requireAuction(ctx context.Context, auctionId uuid.UUID) error {
	if _, err := s.auctionRepo.GetAuctionById(ctx, auctionId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrAuctionNotFound
		}

		return err
	}

	return nil
}
