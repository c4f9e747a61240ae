// Package users provides the PostgreSQL-backed repository for user accounts
// and their settings sub-documents.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkrasnova/fintrack/internal/common"
	"github.com/dkrasnova/fintrack/internal/dbx"
	"github.com/dkrasnova/fintrack/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password_hash, created_at)
         VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.CreatedAt).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, created_at FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}

	return user, nil
}

// SaveSettings upserts the settings sub-document for a user.
func (r *PostgresRepository) SaveSettings(ctx context.Context, userID string, settings *models.Settings) error {
	query :=
		`INSERT INTO user_settings (user_id, currency, theme)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id)
		 DO UPDATE SET currency = EXCLUDED.currency, theme = EXCLUDED.theme
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, settings.Currency, settings.Theme); err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}

	return nil
}

func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	query :=
		`SELECT currency, theme FROM user_settings
		 WHERE user_id = $1
		 `

	settings := &models.Settings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&settings.Currency, &settings.Theme)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}

	return settings, nil
}
