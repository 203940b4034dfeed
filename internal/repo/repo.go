package repo

import (
	"context"

	"auction-management-api/internal/common"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/memory"
	"auction-management-api/internal/repo/pgdb"
	"auction-management-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type Participant interface {
	CreateParticipant(ctx context.Context, input *entity.CreateParticipantInput) (uuid.UUID, error)
	GetParticipantById(ctx context.Context, id uuid.UUID) (*entity.Participant, error)
	GetParticipantByIdentityNumber(ctx context.Context, identityNumber string) (*entity.Participant, error)
	GetParticipantByEmail(ctx context.Context, email string) (*entity.Participant, error)
	ListParticipants(ctx context.Context, filter *entity.ParticipantFilter) ([]entity.Participant, error)

	// UpdateParticipant and DeleteParticipant run the bid-count guard inside
	// the mutating transaction and fail with repo_errors.ErrParticipantHasBids.
	UpdateParticipant(ctx context.Context, p *entity.Participant) error
	DeleteParticipant(ctx context.Context, id uuid.UUID) error
}

type Auction interface {
	CreateAuction(ctx context.Context, a *entity.Auction) (uuid.UUID, error)
	GetAuctionById(ctx context.Context, id uuid.UUID) (*entity.Auction, error)
	ListAuctions(ctx context.Context, filter *entity.AuctionFilter) ([]entity.Auction, error)
	ListSweepableAuctions(ctx context.Context) ([]entity.Auction, error)
	ListAuctionsPendingNotification(ctx context.Context) ([]entity.Auction, error)

	// UpdateInactiveAuction and DeleteInactiveAuction only touch rows still in
	// INACTIVE and report whether a row was written, so the status check and
	// the write act as one unit.
	UpdateInactiveAuction(ctx context.Context, a *entity.Auction) (bool, error)
	DeleteInactiveAuction(ctx context.Context, id uuid.UUID) (bool, error)

	// TransitionAuctionStatus is a compare-and-set on the status column;
	// racing sweeps converge because only one writer observes true.
	TransitionAuctionStatus(ctx context.Context, id uuid.UUID, from, to common.AuctionStatus, winnerId *uuid.UUID) (bool, error)

	CountAuctionsWonBy(ctx context.Context, participantId uuid.UUID) (int, error)
}

type Bid interface {
	CreateBid(ctx context.Context, b *entity.Bid) (uuid.UUID, error)
	GetBidById(ctx context.Context, id uuid.UUID) (*entity.Bid, error)

	// GetLastBidForAuction returns the most recent bid by insertion order,
	// or repo_errors.ErrNotFound when the auction has none.
	GetLastBidForAuction(ctx context.Context, auctionId uuid.UUID) (*entity.Bid, error)
	GetHighestBidForAuction(ctx context.Context, auctionId uuid.UUID) (*entity.Bid, error)

	ListBidsByAuction(ctx context.Context, auctionId uuid.UUID, ascending bool) ([]entity.Bid, error)
	ListBidsByParticipant(ctx context.Context, participantId uuid.UUID, auctionId *uuid.UUID) ([]entity.Bid, error)
	CountBidsByAuction(ctx context.Context, auctionId uuid.UUID) (int, error)
	CountBidsByParticipant(ctx context.Context, participantId uuid.UUID) (int, error)
	GetBidHistory(ctx context.Context, auctionId uuid.UUID) ([]entity.BidHistoryEntry, error)
}

type Repositories struct {
	Diagnostics
	Participant
	Auction
	Bid
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Participant: pgdb.NewParticipantRepo(p),
		Auction:     pgdb.NewAuctionRepo(p),
		Bid:         pgdb.NewBidRepo(p),
	}
}

// NewMemoryRepositories backs every collection with one in-memory store,
// used by tests and the embedded backend.
func NewMemoryRepositories() *Repositories {
	store := memory.NewStore()

	return &Repositories{
		Diagnostics: store,
		Participant: store,
		Auction:     store,
		Bid:         store,
	}
}
