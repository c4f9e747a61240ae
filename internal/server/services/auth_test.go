package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkrasnova/fintrack/internal/common"
	"github.com/dkrasnova/fintrack/internal/dbx"
	"github.com/dkrasnova/fintrack/internal/server/auth"
	"github.com/dkrasnova/fintrack/internal/server/config"
	"github.com/dkrasnova/fintrack/internal/server/models"
	"github.com/dkrasnova/fintrack/internal/server/repositories/repomanager"
	"github.com/dkrasnova/fintrack/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	users.Repository

	getRes *models.User
	getErr error

	createErr error

	settingsRes *models.Settings
	settingsErr error

	savedSettings map[string]*models.Settings
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-1"
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getRes, nil
}

func (f *fakeUsersRepo) SaveSettings(ctx context.Context, userID string, s *models.Settings) error {
	if f.savedSettings == nil {
		f.savedSettings = make(map[string]*models.Settings)
	}
	f.savedSettings[userID] = s
	return nil
}

func (f *fakeUsersRepo) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settingsRes, nil
}

type fakeAuthRepoMgr struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
}

func (m *fakeAuthRepoMgr) Users(db dbx.DBTX) users.Repository { return m.u }

func newAuthConfig() *config.Config {
	return &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: 15 * time.Minute,
	}
}

func TestLogin_DemoFallbackWithoutBackend(t *testing.T) {
	s := NewAuthService(nil, nil, newAuthConfig(), noopLogger{})

	id, err := s.Login(context.Background(), "a@b.com", "whatever")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if id != "demo_user_a_b_com" {
		t.Fatalf("unexpected demo id: %q", id)
	}
}

func TestLogin_Success(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	repo := &fakeUsersRepo{getRes: &models.User{ID: "u-42", Email: "a@b.com", PasswordHash: string(hash)}}
	s := NewAuthService(db, &fakeAuthRepoMgr{u: repo}, newAuthConfig(), noopLogger{})

	id, err := s.Login(context.Background(), "a@b.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if id != "u-42" {
		t.Fatalf("unexpected user id: %q", id)
	}
}

func TestLogin_Failures(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)

	tests := []struct {
		name     string
		repo     *fakeUsersRepo
		password string
		wantErr  error
	}{
		{"unknown user", &fakeUsersRepo{getErr: common.ErrNotFound}, "x", common.ErrUnauthorized},
		{"wrong password", &fakeUsersRepo{getRes: &models.User{ID: "u-42", PasswordHash: string(hash)}}, "wrong", common.ErrUnauthorized},
		{"backend failure", &fakeUsersRepo{getErr: errBoom{}}, "x", common.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAuthService(db, &fakeAuthRepoMgr{u: tt.repo}, newAuthConfig(), noopLogger{})
			_, err := s.Login(context.Background(), "a@b.com", tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegister_DemoFallbackWithoutBackend(t *testing.T) {
	s := NewAuthService(nil, nil, newAuthConfig(), noopLogger{})

	id, err := s.Register(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if id != "demo_user_a_b_com" {
		t.Fatalf("unexpected demo id: %q", id)
	}
}

func TestRegister_CreatesUserAndDefaultSettings(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	repo := &fakeUsersRepo{}
	s := NewAuthService(db, &fakeAuthRepoMgr{u: repo}, newAuthConfig(), noopLogger{})

	id, err := s.Register(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if id != "u-1" {
		t.Fatalf("unexpected user id: %q", id)
	}

	settings := repo.savedSettings["u-1"]
	if settings == nil {
		t.Fatalf("settings not saved for new user")
	}
	if settings.Currency != "USD" || settings.Theme != "light" {
		t.Fatalf("unexpected default settings: %+v", settings)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_RollsBackOnCreateFailure(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	repo := &fakeUsersRepo{createErr: errBoom{}}
	s := NewAuthService(db, &fakeAuthRepoMgr{u: repo}, newAuthConfig(), noopLogger{})

	_, err := s.Register(context.Background(), "a@b.com", "pw")
	if err == nil || !strings.Contains(err.Error(), "error creating user:") {
		t.Fatalf("want wrapped tx error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSettings(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("demo identity gets defaults", func(t *testing.T) {
		s := NewAuthService(db, &fakeAuthRepoMgr{u: &fakeUsersRepo{settingsErr: errBoom{}}}, newAuthConfig(), noopLogger{})
		got, err := s.Settings(ctx, "demo_user_a_b_com")
		if err != nil {
			t.Fatalf("Settings error: %v", err)
		}
		if got.Currency != "USD" || got.Theme != "light" {
			t.Fatalf("unexpected settings: %+v", got)
		}
	})

	t.Run("missing row gets defaults", func(t *testing.T) {
		s := NewAuthService(db, &fakeAuthRepoMgr{u: &fakeUsersRepo{settingsErr: common.ErrNotFound}}, newAuthConfig(), noopLogger{})
		got, err := s.Settings(ctx, "u-1")
		if err != nil {
			t.Fatalf("Settings error: %v", err)
		}
		if got.Currency != "USD" || got.Theme != "light" {
			t.Fatalf("unexpected settings: %+v", got)
		}
	})

	t.Run("stored row wins", func(t *testing.T) {
		repo := &fakeUsersRepo{settingsRes: &models.Settings{Currency: "EUR", Theme: "dark"}}
		s := NewAuthService(db, &fakeAuthRepoMgr{u: repo}, newAuthConfig(), noopLogger{})
		got, err := s.Settings(ctx, "u-1")
		if err != nil {
			t.Fatalf("Settings error: %v", err)
		}
		if got.Currency != "EUR" || got.Theme != "dark" {
			t.Fatalf("unexpected settings: %+v", got)
		}
	})
}

func TestIssueToken_RoundTrip(t *testing.T) {
	s := NewAuthService(nil, nil, newAuthConfig(), noopLogger{})

	token, err := s.IssueToken("u-42")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	userID, err := auth.GetUserIDFromToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("GetUserIDFromToken error: %v", err)
	}
	if userID != "u-42" {
		t.Fatalf("unexpected user id: %q", userID)
	}
}
