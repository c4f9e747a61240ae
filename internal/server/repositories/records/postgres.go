// Package records provides repositories for append-only financial-data
// documents: a PostgreSQL implementation and a session-scoped in-memory one.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dkrasnova/fintrack/internal/common"
	"github.com/dkrasnova/fintrack/internal/dbx"
	"github.com/dkrasnova/fintrack/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). The row-set is stored as JSONB; record IDs are
// generated by the database.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *models.FinancialRecord) (*models.FinancialRecord, error) {
	payload, err := json.Marshal(record.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}

	query :=
		`INSERT INTO financial_data (user_id, type, data, row_count, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err = r.db.QueryRowContext(ctx, query,
		record.UserID, record.Type, payload, record.RowCount, record.CreatedAt).Scan(&record.ID)

	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}

	return record, nil
}

func (r *PostgresRepository) SelectByUser(ctx context.Context, userID, dataType string) ([]*models.FinancialRecord, error) {
	query :=
		`SELECT id, user_id, type, data, row_count, created_at FROM financial_data
		 WHERE user_id = $1 AND ($2 = '' OR type = $2)
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, dataType)
	if err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrRemoteFault, err)
	}
	defer rows.Close()

	result := []*models.FinancialRecord{}
	for rows.Next() {
		item := &models.FinancialRecord{}
		var payload []byte
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Type, &payload, &item.RowCount, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &item.Data); err != nil {
			return nil, fmt.Errorf("unmarshal data: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
