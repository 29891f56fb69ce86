// Package services contains server-side business logic. This file implements
// UserService, which handles login, the user directory and the bootstrap
// admin account.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/auditdesk/internal/common"
	"github.com/dmitrijs2005/auditdesk/internal/server/auth"
	"github.com/dmitrijs2005/auditdesk/internal/server/config"
	"github.com/dmitrijs2005/auditdesk/internal/server/models"
	"github.com/dmitrijs2005/auditdesk/internal/server/repositories/repomanager"
)

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	AccessToken string
	User        *models.User
}

// UserService provides authentication-related operations:
// - Login: verify credentials and mint an access token
// - List: the user directory
// - EnsureAdmin: create the configured admin when it is missing
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		hashCost:                    bcrypt.DefaultCost,
	}
}

// dummyHash is compared against when the user does not exist, so a missing
// account costs as much time as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("auditdesk"), bcrypt.MinCost)

// Login verifies the password and returns a signed access token.
func (s *UserService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(auth.Principal{UserID: user.ID, Role: user.Role}, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	user.PasswordHash = nil
	return &LoginResult{AccessToken: token, User: user}, nil
}

// List returns the user directory.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// Create stores a new user with a bcrypt hash of password.
func (s *UserService) Create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if user.UserName == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, user.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	user.PasswordHash = hash
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// EnsureAdmin creates an admin account named userName unless a user with
// that name exists. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, userName, password string) (bool, error) {
	_, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}
	_, err = s.Create(ctx, &models.User{
		UserName:    userName,
		DisplayName: "Administrator",
		Role:        models.RoleAdmin,
	}, password)
	if err != nil {
		return false, err
	}
	return true, nil
}
