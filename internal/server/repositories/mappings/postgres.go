// Package mappings provides repositories for per-(user, file) column-mapping
// documents: a PostgreSQL implementation and a session-scoped in-memory one.
package mappings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkrasnova/fintrack/internal/common"
	"github.com/dkrasnova/fintrack/internal/dbx"
	"github.com/dkrasnova/fintrack/internal/server/models"
)

// PostgresRepository implements mapping storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). The mapping dictionary is stored as JSONB.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, mapping *models.ColumnMapping) (*models.ColumnMapping, error) {
	payload, err := json.Marshal(mapping.Mappings)
	if err != nil {
		return nil, fmt.Errorf("marshal mappings: %w", err)
	}

	query :=
		`INSERT INTO mappings (user_id, file_name, mappings, created_at, updated_at, last_used)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		mapping.UserID, mapping.FileName, payload,
		mapping.CreatedAt, mapping.UpdatedAt, mapping.LastUsed).Scan(&mapping.ID)

	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}

	return mapping, nil
}

// FindByFileName returns the most recently used mapping with an exact
// file-name match. Historical duplicates for one file name are possible;
// the limit-1 query makes the choice consistent, not guaranteed unique.
func (r *PostgresRepository) FindByFileName(ctx context.Context, userID, fileName string) (*models.ColumnMapping, error) {
	query :=
		`SELECT id, user_id, file_name, mappings, created_at, updated_at, last_used FROM mappings
		 WHERE user_id = $1 AND file_name = $2
		 ORDER BY last_used DESC
		 LIMIT 1
		 `

	mapping := &models.ColumnMapping{}
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, userID, fileName).Scan(
		&mapping.ID, &mapping.UserID, &mapping.FileName, &payload,
		&mapping.CreatedAt, &mapping.UpdatedAt, &mapping.LastUsed)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}

	if err := json.Unmarshal(payload, &mapping.Mappings); err != nil {
		return nil, fmt.Errorf("unmarshal mappings: %w", err)
	}

	return mapping, nil
}

func (r *PostgresRepository) Update(ctx context.Context, mapping *models.ColumnMapping) error {
	payload, err := json.Marshal(mapping.Mappings)
	if err != nil {
		return fmt.Errorf("marshal mappings: %w", err)
	}

	query :=
		`UPDATE mappings
		 SET mappings = $2, updated_at = $3, last_used = $4
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, mapping.ID, payload, mapping.UpdatedAt, mapping.LastUsed)
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) TouchLastUsed(ctx context.Context, id, lastUsed string) error {
	query :=
		`UPDATE mappings SET last_used = $2
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id, lastUsed); err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}

	return nil
}
