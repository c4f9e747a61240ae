package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkrasnova/fintrack/internal/common"
	"github.com/dkrasnova/fintrack/internal/dbx"
	"github.com/dkrasnova/fintrack/internal/logging"
	"github.com/dkrasnova/fintrack/internal/server/auth"
	"github.com/dkrasnova/fintrack/internal/server/config"
	"github.com/dkrasnova/fintrack/internal/server/identity"
	"github.com/dkrasnova/fintrack/internal/server/models"
	"github.com/dkrasnova/fintrack/internal/server/repositories/repomanager"
	"github.com/dkrasnova/fintrack/internal/shared"
	"github.com/dkrasnova/fintrack/internal/timex"
)

// AuthService provides authentication-related operations:
//   - Register: create users with their default settings
//   - Login: verify credentials and return the opaque user ID
//   - IssueToken: mint a session JWT for the web layer
type AuthService struct {
	db            *sql.DB
	manager       repomanager.RepositoryManager
	secretKey     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

// NewAuthService constructs an AuthService. db may be nil when no remote
// backend is configured; identities are then derived demo IDs.
func NewAuthService(db *sql.DB, manager repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:            db,
		manager:       manager,
		secretKey:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        logger,
	}
}

func (s *AuthService) remoteAvailable() bool {
	return s.db != nil && s.manager != nil
}

// Login verifies email/password and returns the stable opaque user ID.
// Unknown users and wrong passwords both yield common.ErrUnauthorized.
// Without a configured backend the demo identity is returned instead.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if !s.remoteAvailable() {
		return identity.DemoID(email), nil
	}

	repo := s.manager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		s.logger.Error(ctx, "login failed", "email", email, "err", err)
		return "", common.ErrInternal
	}

	pw := []byte(password)
	defer shared.WipeByteArray(pw)

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), pw) != nil {
		return "", common.ErrUnauthorized
	}

	return user.ID, nil
}

// Register creates a new user and its settings sub-document in one
// transaction and returns the new user ID. Without a configured backend the
// demo identity is returned instead.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	if !s.remoteAvailable() {
		return identity.DemoID(email), nil
	}

	pw := []byte(password)
	defer shared.WipeByteArray(pw)

	hash, err := bcrypt.GenerateFromPassword(pw, bcrypt.DefaultCost)
	if err != nil {
		return "", common.ErrInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    timex.NowISO(),
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.manager.Users(tx)
		created, err := repo.Create(ctx, user)
		if err != nil {
			return err
		}
		return repo.SaveSettings(ctx, created.ID, models.DefaultSettings())
	}); err != nil {
		s.logger.Error(ctx, "account creation failed", "email", email, "err", err)
		return "", fmt.Errorf("error creating user: %w", err)
	}

	return user.ID, nil
}

// Settings returns the user's settings sub-document. Demo identities and
// users without a stored row get the defaults.
func (s *AuthService) Settings(ctx context.Context, userID string) (*models.Settings, error) {
	id := identity.Classify(userID)
	if id.IsDemo() || !s.remoteAvailable() {
		return models.DefaultSettings(), nil
	}

	settings, err := s.manager.Users(s.db).GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.DefaultSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

// IssueToken mints a session JWT carrying userID.
func (s *AuthService) IssueToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.secretKey, s.tokenValidity)
}
