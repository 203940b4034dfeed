package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type ParticipantRepo struct {
	*postgres.Postgres
}

func NewParticipantRepo(pgdb *postgres.Postgres) *ParticipantRepo {
	return &ParticipantRepo{pgdb}
}

const participantColumns = "id, identity_number, name, email, birth_date, registered_at"

func (r *ParticipantRepo) CreateParticipant(ctx context.Context, input *entity.CreateParticipantInput) (uuid.UUID, error) {
	createSql, args, _ := r.SqlBuilder.
		Insert("participant").
		Columns("identity_number", "name", "email", "birth_date").
		Values(input.IdentityNumber, input.Name, input.Email, input.BirthDate).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRow(createSql, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *ParticipantRepo) GetParticipantById(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	return r.getParticipant(squirrel.Eq{"id": id})
}

func (r *ParticipantRepo) GetParticipantByIdentityNumber(ctx context.Context, identityNumber string) (*entity.Participant, error) {
	return r.getParticipant(squirrel.Eq{"identity_number": identityNumber})
}

func (r *ParticipantRepo) GetParticipantByEmail(ctx context.Context, email string) (*entity.Participant, error) {
	return r.getParticipant(squirrel.Eq{"email": email})
}

func (r *ParticipantRepo) getParticipant(where squirrel.Eq) (*entity.Participant, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(participantColumns).
		From("participant").
		Where(where).
		ToSql()

	var p entity.Participant
	row := r.Database.QueryRow(getSql, args...)
	err := row.Scan(&p.Id, &p.IdentityNumber, &p.Name, &p.Email, &p.BirthDate, &p.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &p, nil
}

func (r *ParticipantRepo) ListParticipants(ctx context.Context, filter *entity.ParticipantFilter) ([]entity.Participant, error) {
	builder := r.SqlBuilder.
		Select(participantColumns).
		From("participant")

	if filter != nil {
		if filter.NameContains != "" {
			builder = builder.Where("name ILIKE ?", "%"+filter.NameContains+"%")
		}
		if filter.HasBids != nil {
			sub := "EXISTS (SELECT 1 FROM bid WHERE bid.participant_id = participant.id)"
			if !*filter.HasBids {
				sub = "NOT " + sub
			}
			builder = builder.Where(sub)
		}
	}

	listSql, args, _ := builder.OrderBy("name ASC").ToSql()

	rows, err := r.Database.Query(listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]entity.Participant, 0)
	for rows.Next() {
		var p entity.Participant
		if err := rows.Scan(&p.Id, &p.IdentityNumber, &p.Name, &p.Email, &p.BirthDate, &p.RegisteredAt); err != nil {
			return participants, err
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return participants, err
	}

	return participants, nil
}

// UpdateParticipant rewrites the record inside one transaction. The row is
// locked first so the bid-count guard and the write cannot interleave with a
// concurrent bid insert.
func (r *ParticipantRepo) UpdateParticipant(ctx context.Context, p *entity.Participant) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := r.lockAndGuard(tx, p.Id); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	updateSql, args, _ := r.SqlBuilder.
		Update("participant").
		Set("identity_number", p.IdentityNumber).
		Set("name", p.Name).
		Set("email", p.Email).
		Set("birth_date", p.BirthDate).
		Where("id = ?", p.Id).
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(updateSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	return tx.Commit()
}

func (r *ParticipantRepo) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := r.lockAndGuard(tx, id); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	deleteSql, args, _ := r.SqlBuilder.
		Delete("participant").
		Where("id = ?", id).
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(deleteSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	return tx.Commit()
}

func (r *ParticipantRepo) lockAndGuard(tx *sql.Tx, id uuid.UUID) error {
	lockSql, args, _ := r.SqlBuilder.
		Select("id").
		From("participant").
		Where("id = ?", id).
		Suffix("FOR UPDATE").
		RunWith(tx).
		ToSql()

	var locked uuid.UUID
	if err := tx.QueryRow(lockSql, args...).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	countSql, args, _ := r.SqlBuilder.
		Select("count(*)").
		From("bid").
		Where("participant_id = ?", id).
		RunWith(tx).
		ToSql()

	var bidCount int
	if err := tx.QueryRow(countSql, args...).Scan(&bidCount); err != nil {
		return err
	}

	if bidCount > 0 {
		return repo_errors.ErrParticipantHasBids
	}

	return nil
}
