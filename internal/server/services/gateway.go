// Package services contains the storage-layer business logic. This file
// implements the persistence gateway: the uniform entry point that hides
// whether an operation runs against the remote store or the session-scoped
// demo store.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dkrasnova/fintrack/internal/common"
	"github.com/dkrasnova/fintrack/internal/logging"
	"github.com/dkrasnova/fintrack/internal/server/identity"
	"github.com/dkrasnova/fintrack/internal/server/models"
	"github.com/dkrasnova/fintrack/internal/server/repositories/mappings"
	"github.com/dkrasnova/fintrack/internal/server/repositories/records"
	"github.com/dkrasnova/fintrack/internal/server/repositories/repomanager"
	"github.com/dkrasnova/fintrack/internal/server/session"
	"github.com/dkrasnova/fintrack/internal/timex"
)

// Gateway routes persistence operations to the remote repositories or to the
// session's ephemeral stores. The choice is made independently on every call:
// a backend that becomes reachable mid-session changes routing mid-session.
//
// No operation propagates a backend failure. Faults are logged to the
// operator channel and flattened to the operation's declared failure shape
// (false, nil, or an empty map).
type Gateway struct {
	db      *sql.DB
	manager repomanager.RepositoryManager
	logger  logging.Logger
}

// NewGateway constructs a gateway. db may be nil when no remote backend is
// configured; every operation then runs against the session stores.
func NewGateway(db *sql.DB, manager repomanager.RepositoryManager, logger logging.Logger) *Gateway {
	return &Gateway{db: db, manager: manager, logger: logger}
}

func (g *Gateway) remoteAvailable() bool {
	return g.db != nil && g.manager != nil
}

// mappingsRepo selects the mapping store for one call. Demo identities never
// reach the remote repository.
func (g *Gateway) mappingsRepo(sess *session.Session, id identity.Identity) mappings.Repository {
	if id.IsDemo() || !g.remoteAvailable() {
		return sess.Mappings()
	}
	return g.manager.Mappings(g.db)
}

func (g *Gateway) recordsRepo(sess *session.Session, id identity.Identity) records.Repository {
	if id.IsDemo() || !g.remoteAvailable() {
		return sess.Records()
	}
	return g.manager.Records(g.db)
}

// SaveMapping upserts the column mapping for (userID, fileLabel). Returns
// false on backend failure; the failure is surfaced on the operator channel,
// never to the caller.
func (g *Gateway) SaveMapping(ctx context.Context, sess *session.Session, userID, fileLabel string, mapping map[string]string) bool {
	return g.upsertMapping(ctx, sess, userID, fileLabel, mapping)
}

// UpdateMapping updates the mapping matched by exact file label, creating it
// when none exists. Callers must not assume the update fails on a missing
// prior mapping; this is a find-or-create.
func (g *Gateway) UpdateMapping(ctx context.Context, sess *session.Session, userID, fileLabel string, mapping map[string]string) bool {
	return g.upsertMapping(ctx, sess, userID, fileLabel, mapping)
}

// upsertMapping finds an existing document by file label and updates it in
// place, or creates a new one. The find and the write are two independent
// round trips; no isolation is guaranteed between them.
func (g *Gateway) upsertMapping(ctx context.Context, sess *session.Session, userID, fileLabel string, mapping map[string]string) bool {
	id := identity.Classify(userID)
	repo := g.mappingsRepo(sess, id)
	now := timex.NowISO()

	existing, err := repo.FindByFileName(ctx, id.ID, fileLabel)
	switch {
	case err == nil:
		existing.Mappings = mapping
		existing.UpdatedAt = now
		existing.LastUsed = now
		if err := repo.Update(ctx, existing); err != nil {
			g.logger.Error(ctx, "error updating mappings", "user_id", userID, "file_name", fileLabel, "err", err)
			return false
		}
		return true
	case errors.Is(err, common.ErrNotFound):
		_, err := repo.Create(ctx, &models.ColumnMapping{
			UserID:    id.ID,
			FileName:  fileLabel,
			Mappings:  mapping,
			CreatedAt: now,
			UpdatedAt: now,
			LastUsed:  now,
		})
		if err != nil {
			g.logger.Error(ctx, "error saving mappings", "user_id", userID, "file_name", fileLabel, "err", err)
			return false
		}
		return true
	default:
		g.logger.Error(ctx, "error saving mappings", "user_id", userID, "file_name", fileLabel, "err", err)
		return false
	}
}

// GetExistingMapping returns the mapping dictionary previously saved for
// (userID, fileLabel), or nil when none exists. Absence is a valid outcome
// for a first-time file, not an error. Reading refreshes the document's
// last_used timestamp as a best-effort side effect.
func (g *Gateway) GetExistingMapping(ctx context.Context, sess *session.Session, userID, fileLabel string) map[string]string {
	id := identity.Classify(userID)
	repo := g.mappingsRepo(sess, id)

	m, err := repo.FindByFileName(ctx, id.ID, fileLabel)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			g.logger.Warn(ctx, "could not retrieve existing mappings", "user_id", userID, "file_name", fileLabel, "err", err)
		}
		return nil
	}

	if err := repo.TouchLastUsed(ctx, m.ID, timex.NowISO()); err != nil {
		g.logger.Warn(ctx, "could not refresh last_used", "user_id", userID, "mapping_id", m.ID, "err", err)
	}

	return m.Mappings
}

// SaveFinancialData appends a new record holding rows. Every save creates a
// new record; no update path exists. The returned ID is backend-generated on
// the remote path and timestamp-derived on the session path (where two saves
// of one type within the same second collide by design).
func (g *Gateway) SaveFinancialData(ctx context.Context, sess *session.Session, userID, dataType string, rows []map[string]any) (bool, string) {
	id := identity.Classify(userID)
	repo := g.recordsRepo(sess, id)

	created, err := repo.Create(ctx, &models.FinancialRecord{
		UserID:    id.ID,
		Type:      dataType,
		Data:      rows,
		RowCount:  len(rows),
		CreatedAt: timex.NowISO(),
	})
	if err != nil {
		g.logger.Error(ctx, "error saving financial data", "user_id", userID, "type", dataType, "err", err)
		return false, ""
	}

	return true, created.ID
}

// GetFinancialData returns the user's records keyed by record ID, filtered
// by exact type equality when dataType is non-empty. No data yields an empty
// map, never an error.
func (g *Gateway) GetFinancialData(ctx context.Context, sess *session.Session, userID, dataType string) map[string]*models.FinancialRecord {
	id := identity.Classify(userID)
	repo := g.recordsRepo(sess, id)

	items, err := repo.SelectByUser(ctx, id.ID, dataType)
	if err != nil {
		g.logger.Warn(ctx, "could not retrieve financial data", "user_id", userID, "type", dataType, "err", err)
		return map[string]*models.FinancialRecord{}
	}

	result := make(map[string]*models.FinancialRecord, len(items))
	for _, item := range items {
		result[item.ID] = item
	}
	return result
}
