package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"auction-management-api/internal/common"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

// Store is a concurrency-safe in-memory record store covering every
// collection. It backs the test suite and the embedded backend.
type Store struct {
	mu           sync.RWMutex
	participants map[uuid.UUID]entity.Participant
	auctions     map[uuid.UUID]entity.Auction
	auctionBids  map[uuid.UUID][]entity.Bid // insertion order per auction
	bids         map[uuid.UUID]entity.Bid
}

func NewStore() *Store {
	return &Store{
		participants: make(map[uuid.UUID]entity.Participant),
		auctions:     make(map[uuid.UUID]entity.Auction),
		auctionBids:  make(map[uuid.UUID][]entity.Bid),
		bids:         make(map[uuid.UUID]entity.Bid),
	}
}

func (s *Store) Ping() error {
	return nil
}

func (s *Store) CreateParticipant(ctx context.Context, input *entity.CreateParticipantInput) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := entity.Participant{
		Id:             uuid.New(),
		IdentityNumber: input.IdentityNumber,
		Name:           input.Name,
		Email:          input.Email,
		BirthDate:      input.BirthDate,
		RegisteredAt:   now(),
	}
	s.participants[p.Id] = p

	return p.Id, nil
}

func (s *Store) GetParticipantById(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &p, nil
}

func (s *Store) GetParticipantByIdentityNumber(ctx context.Context, identityNumber string) (*entity.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.participants {
		if p.IdentityNumber == identityNumber {
			p := p
			return &p, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (s *Store) GetParticipantByEmail(ctx context.Context, email string) (*entity.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.participants {
		if p.Email == email {
			p := p
			return &p, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (s *Store) ListParticipants(ctx context.Context, filter *entity.ParticipantFilter) ([]entity.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	participants := make([]entity.Participant, 0)
	for _, p := range s.participants {
		if filter != nil {
			if filter.NameContains != "" &&
				!strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.NameContains)) {
				continue
			}
			if filter.HasBids != nil && *filter.HasBids != (s.countBidsByParticipantLocked(p.Id) > 0) {
				continue
			}
		}
		participants = append(participants, p)
	}

	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Name < participants[j].Name
	})

	return participants, nil
}

func (s *Store) UpdateParticipant(ctx context.Context, p *entity.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[p.Id]; !ok {
		return repo_errors.ErrNotFound
	}

	if s.countBidsByParticipantLocked(p.Id) > 0 {
		return repo_errors.ErrParticipantHasBids
	}

	s.participants[p.Id] = *p

	return nil
}

func (s *Store) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[id]; !ok {
		return repo_errors.ErrNotFound
	}

	if s.countBidsByParticipantLocked(id) > 0 {
		return repo_errors.ErrParticipantHasBids
	}

	delete(s.participants, id)

	return nil
}

func (s *Store) CreateAuction(ctx context.Context, a *entity.Auction) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *a
	stored.Id = uuid.New()
	stored.CreatedAt = now()
	s.auctions[stored.Id] = stored

	return stored.Id, nil
}

func (s *Store) GetAuctionById(ctx context.Context, id uuid.UUID) (*entity.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auctions[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &a, nil
}

func (s *Store) ListAuctions(ctx context.Context, filter *entity.AuctionFilter) ([]entity.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auctions := make([]entity.Auction, 0)
	for _, a := range s.auctions {
		if filter != nil {
			if filter.Status != nil && a.Status != *filter.Status {
				continue
			}
			if filter.StartFrom != nil && a.StartTime.Before(*filter.StartFrom) {
				continue
			}
			if filter.StartTo != nil && a.StartTime.After(*filter.StartTo) {
				continue
			}
			if filter.EndFrom != nil && a.EndTime.Before(*filter.EndFrom) {
				continue
			}
			if filter.EndTo != nil && a.EndTime.After(*filter.EndTo) {
				continue
			}
		}
		auctions = append(auctions, a)
	}

	sort.Slice(auctions, func(i, j int) bool {
		return auctions[i].StartTime.After(auctions[j].StartTime)
	})

	return auctions, nil
}

func (s *Store) ListSweepableAuctions(ctx context.Context) ([]entity.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auctions := make([]entity.Auction, 0)
	for _, a := range s.auctions {
		if !a.Status.IsTerminal() {
			auctions = append(auctions, a)
		}
	}

	sort.Slice(auctions, func(i, j int) bool {
		return auctions[i].CreatedAt.Before(auctions[j].CreatedAt)
	})

	return auctions, nil
}

func (s *Store) ListAuctionsPendingNotification(ctx context.Context) ([]entity.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auctions := make([]entity.Auction, 0)
	for _, a := range s.auctions {
		if a.Status == common.StatusFinalized && a.WinnerId != nil {
			auctions = append(auctions, a)
		}
	}

	sort.Slice(auctions, func(i, j int) bool {
		return auctions[i].EndTime.Before(auctions[j].EndTime)
	})

	return auctions, nil
}

func (s *Store) UpdateInactiveAuction(ctx context.Context, a *entity.Auction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.auctions[a.Id]
	if !ok {
		return false, repo_errors.ErrNotFound
	}

	if current.Status != common.StatusInactive {
		return false, nil
	}

	updated := *a
	updated.Status = common.StatusInactive
	updated.CreatedAt = current.CreatedAt
	s.auctions[a.Id] = updated

	return true, nil
}

func (s *Store) DeleteInactiveAuction(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.auctions[id]
	if !ok {
		return false, repo_errors.ErrNotFound
	}

	if current.Status != common.StatusInactive {
		return false, nil
	}

	// cascade: an INACTIVE auction has no bids by construction, but the
	// delete mirrors the SQL backend's ON DELETE CASCADE regardless
	for _, b := range s.auctionBids[id] {
		delete(s.bids, b.Id)
	}
	delete(s.auctionBids, id)
	delete(s.auctions, id)

	return true, nil
}

func (s *Store) TransitionAuctionStatus(ctx context.Context, id uuid.UUID, from, to common.AuctionStatus, winnerId *uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.auctions[id]
	if !ok {
		return false, repo_errors.ErrNotFound
	}

	if current.Status != from {
		return false, nil
	}

	current.Status = to
	current.WinnerId = winnerId
	s.auctions[id] = current

	return true, nil
}

func (s *Store) CountAuctionsWonBy(ctx context.Context, participantId uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.auctions {
		if a.WinnerId != nil && *a.WinnerId == participantId {
			count++
		}
	}

	return count, nil
}

func (s *Store) CreateBid(ctx context.Context, b *entity.Bid) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[b.AuctionId]; !ok {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	stored := *b
	stored.Id = uuid.New()
	s.bids[stored.Id] = stored
	s.auctionBids[b.AuctionId] = append(s.auctionBids[b.AuctionId], stored)

	return stored.Id, nil
}

func (s *Store) GetBidById(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bids[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &b, nil
}

func (s *Store) GetLastBidForAuction(ctx context.Context, auctionId uuid.UUID) (*entity.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := s.auctionBids[auctionId]
	if len(bids) == 0 {
		return nil, repo_errors.ErrNotFound
	}

	last := bids[len(bids)-1]

	return &last, nil
}

func (s *Store) GetHighestBidForAuction(ctx context.Context, auctionId uuid.UUID) (*entity.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := s.auctionBids[auctionId]
	if len(bids) == 0 {
		return nil, repo_errors.ErrNotFound
	}

	highest := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > highest.Amount {
			highest = b
		}
	}

	return &highest, nil
}

func (s *Store) ListBidsByAuction(ctx context.Context, auctionId uuid.UUID, ascending bool) ([]entity.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := append([]entity.Bid(nil), s.auctionBids[auctionId]...)
	sort.SliceStable(bids, func(i, j int) bool {
		if ascending {
			return bids[i].Amount < bids[j].Amount
		}
		return bids[i].Amount > bids[j].Amount
	})

	return bids, nil
}

func (s *Store) ListBidsByParticipant(ctx context.Context, participantId uuid.UUID, auctionId *uuid.UUID) ([]entity.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := make([]entity.Bid, 0)
	for _, auctionBids := range s.auctionBids {
		for _, b := range auctionBids {
			if b.ParticipantId != participantId {
				continue
			}
			if auctionId != nil && b.AuctionId != *auctionId {
				continue
			}
			bids = append(bids, b)
		}
	}

	sort.SliceStable(bids, func(i, j int) bool {
		return bids[i].PlacedAt.After(bids[j].PlacedAt)
	})

	return bids, nil
}

func (s *Store) CountBidsByAuction(ctx context.Context, auctionId uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.auctionBids[auctionId]), nil
}

func (s *Store) CountBidsByParticipant(ctx context.Context, participantId uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.countBidsByParticipantLocked(participantId), nil
}

func (s *Store) GetBidHistory(ctx context.Context, auctionId uuid.UUID) ([]entity.BidHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]entity.BidHistoryEntry, 0)
	for _, b := range s.auctionBids[auctionId] {
		entry := entity.BidHistoryEntry{
			BidId:         b.Id,
			Amount:        b.Amount,
			PlacedAt:      b.PlacedAt,
			ParticipantId: b.ParticipantId,
		}
		if p, ok := s.participants[b.ParticipantId]; ok {
			entry.ParticipantName = p.Name
			entry.ParticipantIdentity = p.IdentityNumber
		}
		history = append(history, entry)
	}

	return history, nil
}

func now() time.Time {
	return time.Now().UTC()
}

func (s *Store) countBidsByParticipantLocked(participantId uuid.UUID) int {
	count := 0
	for _, auctionBids := range s.auctionBids {
		for _, b := range auctionBids {
			if b.ParticipantId == participantId {
				count++
			}
		}
	}

	return count
}
