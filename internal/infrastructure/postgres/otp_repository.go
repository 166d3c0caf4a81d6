package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loginrelay/loginrelay/internal/domain/otp"
)

// OtpRepository implements otp.Repository.
type OtpRepository struct {
	pool *pgxpool.Pool
}

func NewOtpRepository(pool *pgxpool.Pool) *OtpRepository {
	return &OtpRepository{pool: pool}
}

// CreatePending inserts the record after expiring any prior pending codes
// for the same account, so at most one pending record exists per account.
func (r *OtpRepository) CreatePending(ctx context.Context, rec *otp.Record) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE otp_records SET status=$1
		WHERE account_id=$2 AND status=$3
	`, otp.StatusExpired, rec.AccountID, otp.StatusPending); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO otp_records
		(record_id, account_id, code, status, created_at, used_at, input_field, input_type, max_length)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, rec.RecordID, rec.AccountID, rec.Code, rec.Status, rec.CreatedAt, rec.UsedAt, rec.InputField, rec.InputType, rec.MaxLength); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *OtpRepository) FindLatestPending(ctx context.Context, accountID string) (*otp.Record, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT record_id, account_id, code, status, created_at, used_at, input_field, input_type, max_length
		FROM otp_records
		WHERE account_id=$1 AND status=$2
		ORDER BY created_at DESC LIMIT 1
	`, accountID, otp.StatusPending)
	return scanOtpRecord(row)
}

func (r *OtpRepository) MarkUsed(ctx context.Context, recordID uuid.UUID, usedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE otp_records SET status=$1, used_at=$2
		WHERE record_id=$3 AND status=$4
	`, otp.StatusUsed, usedAt, recordID, otp.StatusPending)
	return err
}

func (r *OtpRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM otp_records WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(res.RowsAffected()), nil
}

func scanOtpRecord(row pgx.Row) (*otp.Record, error) {
	var rec otp.Record
	var usedAt *time.Time
	var inputField, inputType *string
	var maxLength *int
	if err := row.Scan(&rec.RecordID, &rec.AccountID, &rec.Code, &rec.Status, &rec.CreatedAt, &usedAt, &inputField, &inputType, &maxLength); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec.UsedAt = usedAt
	rec.InputField = inputField
	rec.InputType = inputType
	rec.MaxLength = maxLength
	return &rec, nil
}
