package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Derakings/Goalsaver/internal/domain"
)

// OTPRepository defines the persistence contract for one-time codes.
type OTPRepository interface {
	Create(ctx context.Context, record domain.OTPRecord) error
	// ConsumeLatest marks the newest active record matching (userID, code,
	// purpose) as used and reports whether one was found. The mark-used is
	// conditional on used = FALSE, so two concurrent callers holding the same
	// code cannot both consume it.
	ConsumeLatest(ctx context.Context, userID, code string, purpose domain.OTPPurpose, now time.Time) (bool, error)
	// InvalidateActive marks every unused record for (userID, purpose) as used.
	InvalidateActive(ctx context.Context, userID string, purpose domain.OTPPurpose) error
	// DeleteExpired removes all records whose expiry is before now, used or not.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PgOTPRepository implements OTPRepository using pgxpool.
type PgOTPRepository struct {
	pool *pgxpool.Pool
}

func NewPgOTPRepository(pool *pgxpool.Pool) *PgOTPRepository {
	return &PgOTPRepository{pool: pool}
}

func (r *PgOTPRepository) Create(ctx context.Context, record domain.OTPRecord) error {
	const query = `
		INSERT INTO otps (id, user_id, code, purpose, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Code,
		string(record.Purpose),
		record.Used,
		record.ExpiresAt,
		record.CreatedAt,
	)
	return err
}

func (r *PgOTPRepository) ConsumeLatest(ctx context.Context, userID, code string, purpose domain.OTPPurpose, now time.Time) (bool, error) {
	// Single statement so find-newest and mark-used are atomic: the inner
	// select locks the row, and the outer used = FALSE guard makes the loser
	// of a concurrent race observe zero affected rows.
	const query = `
		UPDATE otps SET used = TRUE
		WHERE id = (
			SELECT id FROM otps
			WHERE user_id = $1 AND code = $2 AND purpose = $3 AND used = FALSE AND expires_at > $4
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE
		)
		AND used = FALSE
	`
	tag, err := r.pool.Exec(ctx, query, userID, code, string(purpose), now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgOTPRepository) InvalidateActive(ctx context.Context, userID string, purpose domain.OTPPurpose) error {
	const query = `UPDATE otps SET used = TRUE WHERE user_id = $1 AND purpose = $2 AND used = FALSE`
	_, err := r.pool.Exec(ctx, query, userID, string(purpose))
	return err
}

func (r *PgOTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM otps WHERE expires_at < $1`
	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
