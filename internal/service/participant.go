package service

import (
	"context"
	"errors"
	"fmt"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/internal/validation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ParticipantService struct {
	participantRepo repo.Participant
	auctionRepo     repo.Auction
	bidRepo         repo.Bid
}

func NewParticipantService(repos *repo.Repositories) *ParticipantService {
	return &ParticipantService{
		participantRepo: repos.Participant,
		auctionRepo:     repos.Auction,
		bidRepo:         repos.Bid,
	}
}

func (s *ParticipantService) CreateParticipant(ctx context.Context, input *entity.CreateParticipantInput) (*entity.ParticipantOutputModel, error) {
	identityNumber, err := validation.IdentityNumber(input.IdentityNumber)
	if err != nil {
		return nil, err
	}

	name, err := validation.ParticipantName(input.Name)
	if err != nil {
		return nil, err
	}

	email, err := validation.Email(input.Email)
	if err != nil {
		return nil, err
	}

	birthDate, err := validation.BirthDate(input.BirthDate)
	if err != nil {
		return nil, err
	}

	if available, err := s.IsIdentityNumberAvailable(ctx, identityNumber, nil); err != nil {
		return nil, err
	} else if !available {
		return nil, fmt.Errorf("%w: %s", ErrIdentityNumberTaken, identityNumber)
	}

	if available, err := s.IsEmailAvailable(ctx, email, nil); err != nil {
		return nil, err
	} else if !available {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}

	normalized := &entity.CreateParticipantInput{
		IdentityNumber: identityNumber,
		Name:           name,
		Email:          email,
		BirthDate:      birthDate,
	}

	id, err := s.participantRepo.CreateParticipant(ctx, normalized)
	if err != nil {
		return nil, err
	}

	participant, err := s.participantRepo.GetParticipantById(ctx, id)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"participant": id.String(), "name": name}).Info("participant registered")

	return mapParticipant(participant), nil
}

func (s *ParticipantService) GetParticipantById(ctx context.Context, id uuid.UUID) (*entity.ParticipantOutputModel, error) {
	participant, err := s.participantRepo.GetParticipantById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}

		return nil, err
	}

	return mapParticipant(participant), nil
}

func (s *ParticipantService) GetParticipantByIdentityNumber(ctx context.Context, identityNumber string) (*entity.ParticipantOutputModel, error) {
	cleaned, err := validation.IdentityNumber(identityNumber)
	if err != nil {
		return nil, err
	}

	participant, err := s.participantRepo.GetParticipantByIdentityNumber(ctx, cleaned)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}

		return nil, err
	}

	return mapParticipant(participant), nil
}

func (s *ParticipantService) GetParticipantByEmail(ctx context.Context, email string) (*entity.ParticipantOutputModel, error) {
	normalized, err := validation.Email(email)
	if err != nil {
		return nil, err
	}

	participant, err := s.participantRepo.GetParticipantByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}

		return nil, err
	}

	return mapParticipant(participant), nil
}

func (s *ParticipantService) ListParticipants(ctx context.Context, filter *entity.ParticipantFilter) ([]entity.ParticipantOutputModel, error) {
	participants, err := s.participantRepo.ListParticipants(ctx, filter)
	if err != nil {
		return nil, err
	}

	return mapParticipants(participants), nil
}

func (s *ParticipantService) UpdateParticipant(ctx context.Context, id uuid.UUID, input *entity.UpdateParticipantInput) (*entity.ParticipantOutputModel, error) {
	participant, err := s.participantRepo.GetParticipantById(ctx, id)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}

		return nil, err
	}

	if input.IdentityNumber != nil {
		identityNumber, err := validation.IdentityNumber(*input.IdentityNumber)
		if err != nil {
			return nil, err
		}

		if available, err := s.IsIdentityNumberAvailable(ctx, identityNumber, &id); err != nil {
			return nil, err
		} else if !available {
			return nil, fmt.Errorf("%w: %s", ErrIdentityNumberTaken, identityNumber)
		}
		participant.IdentityNumber = identityNumber
	}

	if input.Name != nil {
		name, err := validation.ParticipantName(*input.Name)
		if err != nil {
			return nil, err
		}
		participant.Name = name
	}

	if input.Email != nil {
		email, err := validation.Email(*input.Email)
		if err != nil {
			return nil, err
		}

		if available, err := s.IsEmailAvailable(ctx, email, &id); err != nil {
			return nil, err
		} else if !available {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
		participant.Email = email
	}

	if input.BirthDate != nil {
		birthDate, err := validation.BirthDate(*input.BirthDate)
		if err != nil {
			return nil, err
		}
		participant.BirthDate = birthDate
	}

	// the store re-checks the bid-count guard inside the mutating transaction
	if err := s.participantRepo.UpdateParticipant(ctx, participant); err != nil {
		if errors.Is(err, repo_errors.ErrParticipantHasBids) {
			return nil, ErrImmutableParticipant
		}
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}

		return nil, err
	}

	updated, err := s.participantRepo.GetParticipantById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapParticipant(updated), nil
}

func (s *ParticipantService) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	if err := s.participantRepo.DeleteParticipant(ctx, id); err != nil {
		if errors.Is(err, repo_errors.ErrParticipantHasBids) {
			return ErrImmutableParticipant
		}
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrParticipantNotFound
		}

		return err
	}

	log.WithField("participant", id.String()).Info("participant removed")

	return nil
}

// GetParticipantStatistics derives the registry aggregates; nothing here is
// stored.
func (s *ParticipantService) GetParticipantStatistics(ctx context.Context, id uuid.UUID) (*entity.ParticipantStatistics, error) {
	if _, err := s.participantRepo.GetParticipantById(ctx, id); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.ListBidsByParticipant(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	won, err := s.auctionRepo.CountAuctionsWonBy(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &entity.ParticipantStatistics{AuctionsWon: won}
	if len(bids) == 0 {
		return stats, nil
	}

	auctions := make(map[uuid.UUID]struct{})
	highest, lowest := bids[0].Amount, bids[0].Amount
	for _, b := range bids {
		stats.TotalBids++
		stats.TotalSpent += b.Amount
		auctions[b.AuctionId] = struct{}{}
		if b.Amount > highest {
			highest = b.Amount
		}
		if b.Amount < lowest {
			lowest = b.Amount
		}
	}
	stats.AuctionsParticipated = len(auctions)
	stats.HighestBid = &highest
	stats.LowestBid = &lowest

	return stats, nil
}

// CanModifyParticipant reports whether update/delete would pass the
// immutability guard, with a human-readable reason.
func (s *ParticipantService) CanModifyParticipant(ctx context.Context, id uuid.UUID) (bool, string, error) {
	if _, err := s.participantRepo.GetParticipantById(ctx, id); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return false, "participant not found", nil
		}

		return false, "", err
	}

	count, err := s.bidRepo.CountBidsByParticipant(ctx, id)
	if err != nil {
		return false, "", err
	}

	if count > 0 {
		return false, fmt.Sprintf("participant owns %d bid(s) and can't be changed or removed", count), nil
	}

	return true, "participant can be changed or removed", nil
}

func (s *ParticipantService) IsIdentityNumberAvailable(ctx context.Context, identityNumber string, excludeId *uuid.UUID) (bool, error) {
	existing, err := s.participantRepo.GetParticipantByIdentityNumber(ctx, identityNumber)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return true, nil
		}

		return false, err
	}

	return excludeId != nil && existing.Id == *excludeId, nil
}

func (s *ParticipantService) IsEmailAvailable(ctx context.Context, email string, excludeId *uuid.UUID) (bool, error) {
	existing, err := s.participantRepo.GetParticipantByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return true, nil
		}

		return false, err
	}

	return excludeId != nil && existing.Id == *excludeId, nil
}
