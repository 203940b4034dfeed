package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/pkg/postgres"

	"github.com/google/uuid"
)

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

const bidColumns = "id, amount, placed_at, auction_id, participant_id"

func (r *BidRepo) CreateBid(ctx context.Context, b *entity.Bid) (uuid.UUID, error) {
	createSql, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("amount", "placed_at", "auction_id", "participant_id").
		Values(b.Amount, b.PlacedAt, b.AuctionId, b.ParticipantId).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRow(createSql, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("id = ?", id).
		ToSql()

	return r.queryBid(getSql, args)
}

// Insertion order is the seq column, not placed_at: timestamps can collide,
// the sequence cannot.
func (r *BidRepo) GetLastBidForAuction(ctx context.Context, auctionId uuid.UUID) (*entity.Bid, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("auction_id = ?", auctionId).
		OrderBy("seq DESC").
		Limit(1).
		ToSql()

	return r.queryBid(getSql, args)
}

func (r *BidRepo) GetHighestBidForAuction(ctx context.Context, auctionId uuid.UUID) (*entity.Bid, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("auction_id = ?", auctionId).
		OrderBy("amount DESC", "seq ASC").
		Limit(1).
		ToSql()

	return r.queryBid(getSql, args)
}

func (r *BidRepo) ListBidsByAuction(ctx context.Context, auctionId uuid.UUID, ascending bool) ([]entity.Bid, error) {
	order := "amount ASC"
	if !ascending {
		order = "amount DESC"
	}

	listSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("auction_id = ?", auctionId).
		OrderBy(order, "seq ASC").
		ToSql()

	return r.queryBids(listSql, args)
}

func (r *BidRepo) ListBidsByParticipant(ctx context.Context, participantId uuid.UUID, auctionId *uuid.UUID) ([]entity.Bid, error) {
	builder := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("participant_id = ?", participantId)

	if auctionId != nil {
		builder = builder.Where("auction_id = ?", *auctionId)
	}

	listSql, args, _ := builder.OrderBy("seq DESC").ToSql()

	return r.queryBids(listSql, args)
}

func (r *BidRepo) CountBidsByAuction(ctx context.Context, auctionId uuid.UUID) (int, error) {
	return r.countBids("auction_id", auctionId)
}

func (r *BidRepo) CountBidsByParticipant(ctx context.Context, participantId uuid.UUID) (int, error) {
	return r.countBids("participant_id", participantId)
}

func (r *BidRepo) GetBidHistory(ctx context.Context, auctionId uuid.UUID) ([]entity.BidHistoryEntry, error) {
	historySql, args, _ := r.SqlBuilder.
		Select("bid.id, bid.amount, bid.placed_at, participant.id, participant.name, participant.identity_number").
		From("bid").
		InnerJoin("participant on participant.id = bid.participant_id").
		Where("bid.auction_id = ?", auctionId).
		OrderBy("bid.seq ASC").
		ToSql()

	rows, err := r.Database.Query(historySql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]entity.BidHistoryEntry, 0)
	for rows.Next() {
		var e entity.BidHistoryEntry
		if err := rows.Scan(&e.BidId, &e.Amount, &e.PlacedAt, &e.ParticipantId, &e.ParticipantName, &e.ParticipantIdentity); err != nil {
			return history, err
		}
		history = append(history, e)
	}
	if err = rows.Err(); err != nil {
		return history, err
	}

	return history, nil
}

func (r *BidRepo) countBids(column string, id uuid.UUID) (int, error) {
	countSql, args, _ := r.SqlBuilder.
		Select("count(*)").
		From("bid").
		Where(column+" = ?", id).
		ToSql()

	var count int
	if err := r.Database.QueryRow(countSql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *BidRepo) queryBid(getSql string, args []interface{}) (*entity.Bid, error) {
	var b entity.Bid
	row := r.Database.QueryRow(getSql, args...)
	err := row.Scan(&b.Id, &b.Amount, &b.PlacedAt, &b.AuctionId, &b.ParticipantId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &b, nil
}

func (r *BidRepo) queryBids(listSql string, args []interface{}) ([]entity.Bid, error) {
	rows, err := r.Database.Query(listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		var b entity.Bid
		if err := rows.Scan(&b.Id, &b.Amount, &b.PlacedAt, &b.AuctionId, &b.ParticipantId); err != nil {
			return bids, err
		}
		bids = append(bids, b)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}
