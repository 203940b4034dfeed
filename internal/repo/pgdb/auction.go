package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"auction-management-api/internal/common"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type AuctionRepo struct {
	*postgres.Postgres
}

func NewAuctionRepo(pgdb *postgres.Postgres) *AuctionRepo {
	return &AuctionRepo{pgdb}
}

const auctionColumns = "id, name, minimum_bid, start_time, end_time, status, winner_id, created_at"

func (r *AuctionRepo) CreateAuction(ctx context.Context, a *entity.Auction) (uuid.UUID, error) {
	createSql, args, _ := r.SqlBuilder.
		Insert("auction").
		Columns("name", "minimum_bid", "start_time", "end_time", "status").
		Values(a.Name, a.MinimumBid, a.StartTime, a.EndTime, a.Status.String()).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRow(createSql, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *AuctionRepo) GetAuctionById(ctx context.Context, id uuid.UUID) (*entity.Auction, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("auction").
		Where("id = ?", id).
		ToSql()

	a, err := scanAuction(r.Database.QueryRow(getSql, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return a, nil
}

func (r *AuctionRepo) ListAuctions(ctx context.Context, filter *entity.AuctionFilter) ([]entity.Auction, error) {
	builder := r.SqlBuilder.
		Select(auctionColumns).
		From("auction")

	if filter != nil {
		if filter.Status != nil {
			builder = builder.Where("status = ?", filter.Status.String())
		}
		if filter.StartFrom != nil {
			builder = builder.Where("start_time >= ?", *filter.StartFrom)
		}
		if filter.StartTo != nil {
			builder = builder.Where("start_time <= ?", *filter.StartTo)
		}
		if filter.EndFrom != nil {
			builder = builder.Where("end_time >= ?", *filter.EndFrom)
		}
		if filter.EndTo != nil {
			builder = builder.Where("end_time <= ?", *filter.EndTo)
		}
	}

	listSql, args, _ := builder.OrderBy("start_time DESC").ToSql()

	return r.queryAuctions(listSql, args)
}

func (r *AuctionRepo) ListSweepableAuctions(ctx context.Context) ([]entity.Auction, error) {
	listSql, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("auction").
		Where(squirrel.Eq{"status": []string{common.StatusInactive.String(), common.StatusOpen.String()}}).
		OrderBy("created_at ASC").
		ToSql()

	return r.queryAuctions(listSql, args)
}

func (r *AuctionRepo) ListAuctionsPendingNotification(ctx context.Context) ([]entity.Auction, error) {
	listSql, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("auction").
		Where("status = ?", common.StatusFinalized.String()).
		Where("winner_id IS NOT NULL").
		OrderBy("end_time ASC").
		ToSql()

	return r.queryAuctions(listSql, args)
}

func (r *AuctionRepo) UpdateInactiveAuction(ctx context.Context, a *entity.Auction) (bool, error) {
	updateSql, args, _ := r.SqlBuilder.
		Update("auction").
		Set("name", a.Name).
		Set("minimum_bid", a.MinimumBid).
		Set("start_time", a.StartTime).
		Set("end_time", a.EndTime).
		Where("id = ?", a.Id).
		Where("status = ?", common.StatusInactive.String()).
		ToSql()

	result, err := r.Database.Exec(updateSql, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *AuctionRepo) DeleteInactiveAuction(ctx context.Context, id uuid.UUID) (bool, error) {
	// bid rows go with the auction via ON DELETE CASCADE
	deleteSql, args, _ := r.SqlBuilder.
		Delete("auction").
		Where("id = ?", id).
		Where("status = ?", common.StatusInactive.String()).
		ToSql()

	result, err := r.Database.Exec(deleteSql, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// TransitionAuctionStatus writes the new status only if the row still holds
// the expected one. Concurrent sweeps race on this update and exactly one
// observes true.
func (r *AuctionRepo) TransitionAuctionStatus(ctx context.Context, id uuid.UUID, from, to common.AuctionStatus, winnerId *uuid.UUID) (bool, error) {
	winner := uuid.NullUUID{}
	if winnerId != nil {
		winner = uuid.NullUUID{UUID: *winnerId, Valid: true}
	}

	transitionSql, args, _ := r.SqlBuilder.
		Update("auction").
		Set("status", to.String()).
		Set("winner_id", winner).
		Where("id = ?", id).
		Where("status = ?", from.String()).
		ToSql()

	result, err := r.Database.Exec(transitionSql, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *AuctionRepo) CountAuctionsWonBy(ctx context.Context, participantId uuid.UUID) (int, error) {
	countSql, args, _ := r.SqlBuilder.
		Select("count(*)").
		From("auction").
		Where("winner_id = ?", participantId).
		ToSql()

	var count int
	if err := r.Database.QueryRow(countSql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *AuctionRepo) queryAuctions(listSql string, args []interface{}) ([]entity.Auction, error) {
	rows, err := r.Database.Query(listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	auctions := make([]entity.Auction, 0)
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return auctions, err
		}
		auctions = append(auctions, *a)
	}
	if err = rows.Err(); err != nil {
		return auctions, err
	}

	return auctions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuction(row rowScanner) (*entity.Auction, error) {
	var a entity.Auction
	var status string
	var winner uuid.NullUUID

	err := row.Scan(&a.Id, &a.Name, &a.MinimumBid, &a.StartTime, &a.EndTime, &status, &winner, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	a.Status, err = common.ParseAuctionStatus(status)
	if err != nil {
		return nil, err
	}

	if winner.Valid {
		id := winner.UUID
		a.WinnerId = &id
	}

	return &a, nil
}
