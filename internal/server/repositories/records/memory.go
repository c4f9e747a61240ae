package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkrasnova/fintrack/internal/server/models"
	"github.com/dkrasnova/fintrack/internal/timex"
)

// nowCompact is a seam so tests can pin the derived-ID clock.
var nowCompact = timex.NowCompact

// MemoryRepository is the session-scoped record store used on the demo path.
// IDs are derived as "<type>_<yyyymmddhhmmss>"; two saves of the same type
// within the same second therefore collide and the later one wins. That is
// the documented policy of this store, not an accident.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.FinancialRecord
}

// NewMemoryRepository constructs an empty session store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*models.FinancialRecord)}
}

func (r *MemoryRepository) Create(ctx context.Context, record *models.FinancialRecord) (*models.FinancialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = fmt.Sprintf("%s_%s", record.Type, nowCompact())
	r.items[record.ID] = copyRecord(record)
	return record, nil
}

func (r *MemoryRepository) SelectByUser(ctx context.Context, userID, dataType string) ([]*models.FinancialRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*models.FinancialRecord{}
	for _, item := range r.items {
		if dataType != "" && item.Type != dataType {
			continue
		}
		result = append(result, copyRecord(item))
	}
	return result, nil
}

// copyRecord returns a deep copy so callers never alias store-owned slices.
func copyRecord(rec *models.FinancialRecord) *models.FinancialRecord {
	cp := *rec
	cp.Data = make([]map[string]any, len(rec.Data))
	for i, row := range rec.Data {
		m := make(map[string]any, len(row))
		for k, v := range row {
			m[k] = v
		}
		cp.Data[i] = m
	}
	return &cp
}
