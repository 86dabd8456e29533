// Package users contains the server-side account logic: registration,
// credential verification, and the password lifecycle.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/davidmr/portfoliocms/internal/common"
	"github.com/davidmr/portfoliocms/internal/cryptox"
	"github.com/davidmr/portfoliocms/internal/dbx"
	"github.com/davidmr/portfoliocms/internal/server/models"
	"github.com/davidmr/portfoliocms/internal/server/repositories/repomanager"
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Service provides account operations:
//   - Register: create accounts
//   - Authenticate: verify credentials
//   - ChangePassword: rotate the stored hash after re-verification
//   - Seed: bootstrap the admin account on an empty store
type Service struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

// NewService constructs a Service over the given database handle and
// repository manager.
func NewService(db *sql.DB, rm repomanager.RepositoryManager) *Service {
	return &Service{db: db, rm: rm}
}

// NormalizeEmail lowercases and trims an identity. Accounts are keyed by the
// normalized form, which makes lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < common.MinPasswordLength {
		return common.ErrorWeakPassword
	}
	return nil
}

// Register creates a new account with a freshly salted password hash.
// The identity must be email-shaped and unused; the returned User carries
// no password material beyond the unexported-from-JSON hash field.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if !emailRe.MatchString(email) {
		return nil, common.ErrorInvalidEmail
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	repo := s.rm.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Authenticate verifies the (email, password) pair. An unknown identity and a
// wrong password both return common.ErrorInvalidCredentials; the unknown case
// still burns a hash comparison so the two are not distinguishable by timing.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.rm.Users(s.db)

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.DummyCheck(password)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}
	return user, nil
}

// GetByID resolves an account by its ID. Used by the auth gate to confirm the
// account still exists after token verification.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.rm.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// ChangePassword re-verifies the current password, enforces the length
// policy on the new one, and replaces the stored hash. The whole operation
// runs in one transaction so a concurrent change cannot observe a
// half-applied state.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorInvalidCredentials
			}
			return common.ErrorInternal
		}

		if !cryptox.CheckPassword(currentPassword, user.PasswordHash) {
			return common.ErrorInvalidCredentials
		}

		if err := validatePassword(newPassword); err != nil {
			return err
		}

		hash, err := cryptox.HashPassword(newPassword)
		if err != nil {
			return common.ErrorInternal
		}
		return repo.UpdatePasswordHash(ctx, userID, hash)
	})
}

// Seed creates the initial admin account if the store is empty. Safe to call
// on every startup; a populated store is left untouched.
func (s *Service) Seed(ctx context.Context, name, email, password string) (bool, error) {
	var created bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := cryptox.HashPassword(password)
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, &models.User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        NormalizeEmail(email),
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		})
		if err == nil {
			created = true
		}
		return err
	})
	return created, err
}
