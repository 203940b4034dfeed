package service

import (
	"context"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/notifier"
	"auction-management-api/internal/repo"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type Participant interface {
	CreateParticipant(ctx context.Context, input *entity.CreateParticipantInput) (*entity.ParticipantOutputModel, error)
	GetParticipantById(ctx context.Context, id uuid.UUID) (*entity.ParticipantOutputModel, error)
	GetParticipantByIdentityNumber(ctx context.Context, identityNumber string) (*entity.ParticipantOutputModel, error)
	GetParticipantByEmail(ctx context.Context, email string) (*entity.ParticipantOutputModel, error)
	ListParticipants(ctx context.Context, filter *entity.ParticipantFilter) ([]entity.ParticipantOutputModel, error)
	UpdateParticipant(ctx context.Context, id uuid.UUID, input *entity.UpdateParticipantInput) (*entity.ParticipantOutputModel, error)
	DeleteParticipant(ctx context.Context, id uuid.UUID) error

	GetParticipantStatistics(ctx context.Context, id uuid.UUID) (*entity.ParticipantStatistics, error)
	CanModifyParticipant(ctx context.Context, id uuid.UUID) (bool, string, error)
	IsIdentityNumberAvailable(ctx context.Context, identityNumber string, excludeId *uuid.UUID) (bool, error)
	IsEmailAvailable(ctx context.Context, email string, excludeId *uuid.UUID) (bool, error)
}

type Auction interface {
	CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (*entity.AuctionOutputModel, error)
	GetAuctionById(ctx context.Context, id uuid.UUID) (*entity.AuctionOutputModel, error)
	ListAuctions(ctx context.Context, filter *entity.AuctionFilter) ([]entity.AuctionOutputModel, error)
	UpdateAuction(ctx context.Context, id uuid.UUID, input *entity.UpdateAuctionInput) (*entity.AuctionOutputModel, error)
	DeleteAuction(ctx context.Context, id uuid.UUID) error

	// RefreshStatuses is the lifecycle sweep: idempotent, one pass over every
	// non-terminal auction.
	RefreshStatuses(ctx context.Context, sendNotifications bool) (*entity.SweepResult, error)

	GetAuctionStatistics(ctx context.Context, id uuid.UUID) (*entity.AuctionStatistics, error)
	CanReceiveBids(ctx context.Context, id uuid.UUID) (bool, string, error)
	PendingWinnerNotifications(ctx context.Context) ([]entity.PendingWinner, error)
}

type Bid interface {
	PlaceBid(ctx context.Context, participantId, auctionId uuid.UUID, amount float64) (*entity.BidOutputModel, error)
	SimulateBid(ctx context.Context, participantId, auctionId uuid.UUID, amount float64) (*entity.BidSimulation, error)

	GetBidById(ctx context.Context, id uuid.UUID) (*entity.BidOutputModel, error)
	ListBidsByAuction(ctx context.Context, auctionId uuid.UUID, ascending bool) ([]entity.BidOutputModel, error)
	ListBidsByParticipant(ctx context.Context, participantId uuid.UUID, auctionId *uuid.UUID) ([]entity.BidOutputModel, error)
	GetBidRange(ctx context.Context, auctionId uuid.UUID) (*entity.BidRange, error)
	NextMinimumAmount(ctx context.Context, auctionId uuid.UUID) (float64, error)
	GetBidHistory(ctx context.Context, auctionId uuid.UUID) ([]entity.BidHistoryEntry, error)
	GetRanking(ctx context.Context, auctionId uuid.UUID) ([]entity.RankingEntry, error)
	CanPlaceBid(ctx context.Context, participantId, auctionId uuid.UUID) (bool, string, error)
}

type Services struct {
	Diagnostics Diagnostics
	Participant Participant
	Auction     Auction
	Bid         Bid
}

func NewServices(repos *repo.Repositories, n notifier.Notifier) *Services {
	locks := newAuctionLocks()

	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Participant: NewParticipantService(repos),
		Auction:     NewAuctionService(repos, n, locks),
		Bid:         NewBidService(repos, locks),
	}
}
