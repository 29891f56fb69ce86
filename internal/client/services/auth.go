// Package services contains application services for the AuditDesk console.
// This file defines the authentication service: login against the server,
// session restore from the local database, logout and a liveness probe.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/auditdesk/internal/client/client"
	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/session"
	"github.com/dmitrijs2005/auditdesk/internal/common"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session.
//   - Restore: reinstall a persisted session; session.ErrUnauthenticated
//     when there is none.
//   - Logout: forget the persisted session.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (models.Session, error)
	Restore(ctx context.Context) (models.Session, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  *session.Store
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(c client.Client, store *session.Store) AuthService {
	return &authService{client: c, store: store}
}

// Login wipes password once it has been sent.
func (a *authService) Login(ctx context.Context, username string, password []byte) (models.Session, error) {
	defer common.WipeByteArray(password)

	sess, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return models.Session{}, fmt.Errorf("login error: %w", err)
	}
	if !sess.Role.Valid() {
		return models.Session{}, fmt.Errorf("login error: server returned unknown role %q", sess.Role)
	}
	if err := a.store.Save(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("session saving error: %w", err)
	}
	return sess, nil
}

func (a *authService) Restore(ctx context.Context) (models.Session, error) {
	sess, err := a.store.Load(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if sess.AccessToken == "" {
		return models.Session{}, session.ErrUnauthenticated
	}
	a.client.SetAccessToken(sess.AccessToken)
	return sess, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetAccessToken("")
	return a.store.Clear(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
