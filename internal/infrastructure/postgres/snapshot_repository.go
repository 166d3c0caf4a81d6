package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loginrelay/loginrelay/internal/domain/snapshot"
)

// SnapshotRepository implements snapshot.Repository. Cookies, tokens, storage
// and headers are stored as JSONB so the captured shape round-trips intact.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) Upsert(ctx context.Context, s *snapshot.Snapshot) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO session_snapshots
		(account_id, cookies, cookie_header, derived_tokens, storage, login_check, auth_type,
		 url, page_title, is_logged_in, expires_at, headers, last_used)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (account_id) DO UPDATE SET
			cookies=EXCLUDED.cookies,
			cookie_header=EXCLUDED.cookie_header,
			derived_tokens=EXCLUDED.derived_tokens,
			storage=EXCLUDED.storage,
			login_check=EXCLUDED.login_check,
			auth_type=EXCLUDED.auth_type,
			url=EXCLUDED.url,
			page_title=EXCLUDED.page_title,
			is_logged_in=EXCLUDED.is_logged_in,
			expires_at=EXCLUDED.expires_at,
			headers=EXCLUDED.headers,
			last_used=EXCLUDED.last_used
	`, s.AccountID, s.Cookies, s.CookieHeader, s.DerivedTokens, s.Storage, s.LoginCheck, s.AuthType,
		s.URL, s.PageTitle, s.IsLoggedIn, s.ExpiresAt, s.Headers, s.LastUsed)
	return err
}

func (r *SnapshotRepository) FindByAccount(ctx context.Context, accountID string) (*snapshot.Snapshot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT account_id, cookies, cookie_header, derived_tokens, storage, login_check, auth_type,
		       url, page_title, is_logged_in, expires_at, headers, last_used
		FROM session_snapshots WHERE account_id=$1
	`, accountID)
	return scanSnapshot(row)
}

func scanSnapshot(row pgx.Row) (*snapshot.Snapshot, error) {
	var s snapshot.Snapshot
	var loginCheck, authType *string
	var expiresAt, lastUsed time.Time
	if err := row.Scan(&s.AccountID, &s.Cookies, &s.CookieHeader, &s.DerivedTokens, &s.Storage, &loginCheck, &authType,
		&s.URL, &s.PageTitle, &s.IsLoggedIn, &expiresAt, &s.Headers, &lastUsed); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	s.LoginCheck = loginCheck
	s.AuthType = authType
	s.ExpiresAt = expiresAt.UTC()
	s.LastUsed = lastUsed.UTC()
	return &s, nil
}
