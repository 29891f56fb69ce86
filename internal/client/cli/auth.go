package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/auditdesk/internal/client/client"
	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/register"
	"github.com/dmitrijs2005/auditdesk/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials, authenticates and opens the register.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, username, password)
	if err != nil {
		a.log.Warn(ctx, "login failed", "username", username, "error", err)
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			return errors.New("invalid username or password")
		case errors.Is(err, client.ErrUnavailable):
			return errors.New("server unavailable, try again later")
		}
		return err
	}

	a.log.Info(ctx, "logged in", "username", sess.Username, "role", sess.Role)
	a.startSession(ctx, sess)
	return nil
}

// startSession derives the role from the stored session once and builds
// the engine around it.
func (a *App) startSession(ctx context.Context, sess models.Session) {
	role, err := session.DeriveRole(ctx, a.sessions)
	if err != nil {
		a.log.Error(ctx, "session unusable", "error", err)
		fmt.Fprintln(a.out, "Stored session is unusable, please log in again")
		return
	}

	category := a.prefs.Last(ctx, models.CategoryInternal)
	if a.config != nil && a.config.Category != "" {
		if c, err := models.ParseCategory(a.config.Category); err == nil {
			category = c
		} else {
			fmt.Fprintln(a.out, "Ignoring start category:", err)
		}
	}

	a.user = &sess
	a.engine = register.New(a.api, register.Options{
		Category: category,
		Role:     role,
		Notifier: a,
		Logger:   a.log,
	})

	fmt.Fprintf(a.out, "Hello, %s (%s)\n", displayName(sess), role)
	if err := a.engine.Load(ctx); err == nil {
		fmt.Fprintf(a.out, "%d %s records loaded\n", a.engine.Len(), category)
	} else {
		a.expireOn(ctx, err)
	}
	if err := a.engine.LoadDirectory(ctx); err != nil {
		a.log.Warn(ctx, "responsibility picker degraded", "error", err)
	}
}

// Logout forgets the stored session and closes the register.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	if a.engine != nil {
		a.engine.Close()
	}
	a.engine, a.user = nil, nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	if a.user == nil {
		return session.ErrUnauthenticated
	}
	u := a.user
	fmt.Fprintf(a.out, "%s (%s)\n  department: %s\n  role: %s\n", displayName(*u), u.Username, orDash(u.Department), u.Role)
	return nil
}

// expireOn drops the session when the server no longer accepts its token.
func (a *App) expireOn(ctx context.Context, err error) {
	if !errors.Is(err, client.ErrUnauthorized) {
		return
	}
	a.log.Warn(ctx, "session rejected by server")
	fmt.Fprintln(a.out, "Session expired, please log in again")
	_ = a.Logout(ctx)
}

func displayName(s models.Session) string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
