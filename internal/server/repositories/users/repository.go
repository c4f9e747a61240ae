package users

import (
	"context"

	"github.com/dkrasnova/fintrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SaveSettings(ctx context.Context, userID string, settings *models.Settings) error
	GetSettings(ctx context.Context, userID string) (*models.Settings, error)
}
