package mappings

import (
	"context"

	"github.com/dkrasnova/fintrack/internal/server/models"
)

type Repository interface {
	// Create stores a new mapping document and returns it with its ID set.
	Create(ctx context.Context, mapping *models.ColumnMapping) (*models.ColumnMapping, error)
	// FindByFileName returns one mapping with an exactly matching file name,
	// or common.ErrNotFound. With multiple historical matches, which one is
	// unspecified; implementations should prefer the most recently used.
	FindByFileName(ctx context.Context, userID, fileName string) (*models.ColumnMapping, error)
	// Update rewrites the mapping dictionary and timestamps of the document
	// identified by mapping.ID.
	Update(ctx context.Context, mapping *models.ColumnMapping) error
	// TouchLastUsed refreshes the last_used timestamp of a document.
	TouchLastUsed(ctx context.Context, id, lastUsed string) error
}
