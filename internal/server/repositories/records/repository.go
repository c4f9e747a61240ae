package records

import (
	"context"

	"github.com/dkrasnova/fintrack/internal/server/models"
)

type Repository interface {
	// Create appends a new record and returns it with its ID set. Records
	// are never updated after creation.
	Create(ctx context.Context, record *models.FinancialRecord) (*models.FinancialRecord, error)
	// SelectByUser returns all records for userID, filtered by exact type
	// equality when dataType is non-empty. No records is an empty slice,
	// not an error.
	SelectByUser(ctx context.Context, userID, dataType string) ([]*models.FinancialRecord, error)
}
