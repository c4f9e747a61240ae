package mappings

import (
	"context"
	"sync"

	"github.com/dkrasnova/fintrack/internal/common"
	"github.com/dkrasnova/fintrack/internal/server/models"
)

// MemoryRepository is the session-scoped mapping store used on the demo path.
// Documents are keyed by file name, so saves are idempotent overwrites; the
// file name doubles as the document ID. The store lives and dies with its
// owning session.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.ColumnMapping
}

// NewMemoryRepository constructs an empty session store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*models.ColumnMapping)}
}

func (r *MemoryRepository) Create(ctx context.Context, mapping *models.ColumnMapping) (*models.ColumnMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mapping.ID = mapping.FileName
	r.items[mapping.FileName] = copyMapping(mapping)
	return mapping, nil
}

func (r *MemoryRepository) FindByFileName(ctx context.Context, userID, fileName string) (*models.ColumnMapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[fileName]
	if !ok {
		return nil, common.ErrNotFound
	}
	return copyMapping(m), nil
}

func (r *MemoryRepository) Update(ctx context.Context, mapping *models.ColumnMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[mapping.ID]; !ok {
		return common.ErrNotFound
	}
	cp := copyMapping(mapping)
	cp.FileName = mapping.ID
	r.items[mapping.ID] = cp
	return nil
}

func (r *MemoryRepository) TouchLastUsed(ctx context.Context, id, lastUsed string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return common.ErrNotFound
	}
	m.LastUsed = lastUsed
	return nil
}

// copyMapping returns a deep copy so callers never alias store-owned maps.
func copyMapping(m *models.ColumnMapping) *models.ColumnMapping {
	cp := *m
	cp.Mappings = make(map[string]string, len(m.Mappings))
	for k, v := range m.Mappings {
		cp.Mappings[k] = v
	}
	return &cp
}
