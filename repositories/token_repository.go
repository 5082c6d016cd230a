package repositories

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepository — список отозванных refresh-токенов (logout).
// Записи никому не мешают после истечения срока токена и подчищаются
// через DeleteExpired.
type TokenRepository interface {
	// Revoke идемпотентен: повторный отзыв того же jti — не ошибка.
	Revoke(ctx context.Context, jti string, userID int, expiresAt time.Time) error

	IsRevoked(ctx context.Context, jti string) (bool, error)

	DeleteExpired(ctx context.Context) (int64, error)
}

type postgresTokenRepository struct {
	db *sql.DB
}

func NewPostgresTokenRepository(db *sql.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) Revoke(ctx context.Context, jti string, userID int, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (jti, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, jti, userID, expiresAt)
	return err
}

func (r *postgresTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`

	var revoked bool
	if err := r.db.QueryRowContext(ctx, query, jti).Scan(&revoked); err != nil {
		return false, err
	}
	return revoked, nil
}

func (r *postgresTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
