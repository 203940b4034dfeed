package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-management-api/internal/common"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/notifier"
	"auction-management-api/internal/repo"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/internal/validation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type AuctionService struct {
	auctionRepo     repo.Auction
	bidRepo         repo.Bid
	participantRepo repo.Participant
	notifier        notifier.Notifier
	locks           *auctionLocks
}

func NewAuctionService(repos *repo.Repositories, n notifier.Notifier, locks *auctionLocks) *AuctionService {
	return &AuctionService{
		auctionRepo:     repos.Auction,
		bidRepo:         repos.Bid,
		participantRepo: repos.Participant,
		notifier:        n,
		locks:           locks,
	}
}

func (s *AuctionService) CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (*entity.AuctionOutputModel, error) {
	name, err := validation.AuctionName(input.Name)
	if err != nil {
		return nil, err
	}

	minimumBid, err := validation.MinimumBid(input.MinimumBid)
	if err != nil {
		return nil, err
	}

	startTime, endTime, err := validation.AuctionDates(input.StartTime, input.EndTime, input.AllowPast)
	if err != nil {
		return nil, err
	}

	auction := &entity.Auction{
		Name:       name,
		MinimumBid: minimumBid,
		StartTime:  startTime,
		EndTime:    endTime,
		Status:     common.StatusInactive,
	}

	id, err := s.auctionRepo.CreateAuction(ctx, auction)
	if err != nil {
		return nil, err
	}

	created, err := s.auctionRepo.GetAuctionById(ctx, id)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"auction": id.String(), "name": name, "minimumBid": minimumBid}).Info("auction created")

	return mapAuction(created), nil
}

func (s *AuctionService) GetAuctionById(ctx context.Context, id uuid.UUID) (*entity.AuctionOutputModel, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	return mapAuction(auction), nil
}

func (s *AuctionService) ListAuctions(ctx context.Context, filter *entity.AuctionFilter) ([]entity.AuctionOutputModel, error) {
	auctions, err := s.auctionRepo.ListAuctions(ctx, filter)
	if err != nil {
		return nil, err
	}

	return mapAuctions(auctions), nil
}

func (s *AuctionService) UpdateAuction(ctx context.Context, id uuid.UUID, input *entity.UpdateAuctionInput) (*entity.AuctionOutputModel, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	if auction.Status != common.StatusInactive {
		return nil, fmt.Errorf("%w: auction is %s", ErrInvalidAuctionState, auction.Status)
	}

	if input.Name != nil {
		name, err := validation.AuctionName(*input.Name)
		if err != nil {
			return nil, err
		}
		auction.Name = name
	}

	if input.MinimumBid != nil {
		minimumBid, err := validation.MinimumBid(*input.MinimumBid)
		if err != nil {
			return nil, err
		}
		auction.MinimumBid = minimumBid
	}

	if input.StartTime != nil || input.EndTime != nil {
		startTime := auction.StartTime
		endTime := auction.EndTime
		if input.StartTime != nil {
			startTime = *input.StartTime
		}
		if input.EndTime != nil {
			endTime = *input.EndTime
		}

		startTime, endTime, err = validation.AuctionDates(startTime, endTime, false)
		if err != nil {
			return nil, err
		}
		auction.StartTime = startTime
		auction.EndTime = endTime
	}

	written, err := s.auctionRepo.UpdateInactiveAuction(ctx, auction)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}
	if !written {
		// lost the race against a sweep transition
		return nil, fmt.Errorf("%w: auction is no longer %s", ErrInvalidAuctionState, common.StatusInactive)
	}

	updated, err := s.auctionRepo.GetAuctionById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapAuction(updated), nil
}

func (s *AuctionService) DeleteAuction(ctx context.Context, id uuid.UUID) error {
	auction, err := s.auctionRepo.GetAuctionById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrAuctionNotFound
		}

		return err
	}

	if auction.Status != common.StatusInactive {
		return fmt.Errorf("%w: auction is %s", ErrInvalidAuctionState, auction.Status)
	}

	written, err := s.auctionRepo.DeleteInactiveAuction(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrAuctionNotFound
		}

		return err
	}
	if !written {
		return fmt.Errorf("%w: auction is no longer %s", ErrInvalidAuctionState, common.StatusInactive)
	}

	log.WithField("auction", id.String()).Info("auction deleted")

	return nil
}

// RefreshStatuses applies the time-driven transitions in one pass:
//
//	INACTIVE -> OPEN       start reached, end not yet
//	INACTIVE -> FINALIZED  end reached with bids (skips OPEN)
//	INACTIVE -> EXPIRED    end reached without bids
//	OPEN     -> FINALIZED  end reached with bids
//	OPEN     -> EXPIRED    end reached without bids
//
// Transitions are compare-and-set writes, so a second sweep with no elapsed
// time changes nothing and racing sweeps tally each transition once.
func (s *AuctionService) RefreshStatuses(ctx context.Context, sendNotifications bool) (*entity.SweepResult, error) {
	now := time.Now()
	result := &entity.SweepResult{}

	auctions, err := s.auctionRepo.ListSweepableAuctions(ctx)
	if err != nil {
		return nil, err
	}

	finalized := make([]entity.PendingWinner, 0)

	for i := range auctions {
		auction := &auctions[i]

		switch auction.Status {
		case common.StatusInactive, common.StatusOpen:
		case common.StatusFinalized, common.StatusExpired:
			continue
		}

		if !auction.EndTime.After(now) {
			winner, err := s.finishAuction(ctx, auction, result)
			if err != nil {
				return result, err
			}
			if winner != nil {
				finalized = append(finalized, *winner)
			}
			continue
		}

		if auction.Status == common.StatusInactive && !auction.StartTime.After(now) {
			transitioned, err := s.auctionRepo.TransitionAuctionStatus(ctx, auction.Id, common.StatusInactive, common.StatusOpen, nil)
			if err != nil {
				return result, err
			}
			if transitioned {
				result.Opened++
				log.WithField("auction", auction.Id.String()).Info("auction opened")
			}
		}
	}

	if sendNotifications {
		for i := range finalized {
			w := &finalized[i]
			if s.notifier.NotifyWinner(&w.Auction, &w.Participant, w.WinningAmount) {
				result.NotificationsSent++
			} else {
				// delivery problems never roll back the transition
				log.WithFields(log.Fields{
					"auction": w.Auction.Id.String(),
					"winner":  w.Participant.Id.String(),
				}).Warn("winner notification failed")
			}
		}
	}

	return result, nil
}

// finishAuction moves a past-end auction to FINALIZED or EXPIRED. The bid
// count is read once; the winner is the participant of the highest bid.
// It holds the auction's lock so a concurrent bid either lands before the
// winner is read or is refused against the terminal status.
func (s *AuctionService) finishAuction(ctx context.Context, auction *entity.Auction, result *entity.SweepResult) (*entity.PendingWinner, error) {
	lock := s.locks.lock(auction.Id)
	defer lock.Unlock()

	bidCount, err := s.bidRepo.CountBidsByAuction(ctx, auction.Id)
	if err != nil {
		return nil, err
	}

	if bidCount == 0 {
		transitioned, err := s.auctionRepo.TransitionAuctionStatus(ctx, auction.Id, auction.Status, common.StatusExpired, nil)
		if err != nil {
			return nil, err
		}
		if transitioned {
			result.Expired++
			log.WithField("auction", auction.Id.String()).Info("auction expired without bids")
		}

		return nil, nil
	}

	highest, err := s.bidRepo.GetHighestBidForAuction(ctx, auction.Id)
	if err != nil {
		return nil, err
	}

	transitioned, err := s.auctionRepo.TransitionAuctionStatus(ctx, auction.Id, auction.Status, common.StatusFinalized, &highest.ParticipantId)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, nil
	}

	result.Finalized++
	log.WithFields(log.Fields{
		"auction": auction.Id.String(),
		"winner":  highest.ParticipantId.String(),
		"amount":  highest.Amount,
	}).Info("auction finalized")

	winner, err := s.participantRepo.GetParticipantById(ctx, highest.ParticipantId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil
		}

		return nil, err
	}

	finalizedAuction := *auction
	finalizedAuction.Status = common.StatusFinalized
	finalizedAuction.WinnerId = &highest.ParticipantId

	return &entity.PendingWinner{
		Auction:       finalizedAuction,
		Participant:   *winner,
		WinningAmount: highest.Amount,
	}, nil
}

func (s *AuctionService) GetAuctionStatistics(ctx context.Context, id uuid.UUID) (*entity.AuctionStatistics, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.ListBidsByAuction(ctx, id, true)
	if err != nil {
		return nil, err
	}

	stats := &entity.AuctionStatistics{CurrentBid: auction.MinimumBid}
	if len(bids) == 0 {
		return stats, nil
	}

	bidders := make(map[uuid.UUID]struct{})
	highest, lowest := bids[0].Amount, bids[0].Amount
	for _, b := range bids {
		stats.TotalBids++
		bidders[b.ParticipantId] = struct{}{}
		if b.Amount > highest {
			highest = b.Amount
		}
		if b.Amount < lowest {
			lowest = b.Amount
		}
	}
	stats.DistinctBidders = len(bidders)
	stats.HighestBid = &highest
	stats.LowestBid = &lowest
	stats.CurrentBid = highest

	return stats, nil
}

// CanReceiveBids refreshes statuses first so the answer reflects the current
// wall clock, then checks the auction is OPEN.
func (s *AuctionService) CanReceiveBids(ctx context.Context, id uuid.UUID) (bool, string, error) {
	if _, err := s.RefreshStatuses(ctx, false); err != nil {
		return false, "", err
	}

	auction, err := s.auctionRepo.GetAuctionById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return false, "auction not found", nil
		}

		return false, "", err
	}

	if auction.Status != common.StatusOpen {
		return false, fmt.Sprintf("auction is %s, only %s auctions accept bids", auction.Status, common.StatusOpen), nil
	}

	return true, "auction accepts bids", nil
}

// PendingWinnerNotifications lists finalized auctions with a winner, joined
// with the winner's record and winning amount.
func (s *AuctionService) PendingWinnerNotifications(ctx context.Context) ([]entity.PendingWinner, error) {
	auctions, err := s.auctionRepo.ListAuctionsPendingNotification(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]entity.PendingWinner, 0, len(auctions))
	for i := range auctions {
		auction := &auctions[i]
		if auction.WinnerId == nil {
			continue
		}

		winner, err := s.participantRepo.GetParticipantById(ctx, *auction.WinnerId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				continue
			}

			return nil, err
		}

		highest, err := s.bidRepo.GetHighestBidForAuction(ctx, auction.Id)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				continue
			}

			return nil, err
		}

		pending = append(pending, entity.PendingWinner{
			Auction:       *auction,
			Participant:   *winner,
			WinningAmount: highest.Amount,
		})
	}

	return pending, nil
}
