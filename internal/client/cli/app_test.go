package cli

import (
	"bufio"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/auditdesk/internal/client/client"
	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/register"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubCredentials(t *testing.T, username, password string) {
	t.Helper()
	oldText, oldPass := getSimpleText, getPassword
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return username, nil }
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { getSimpleText, getPassword = oldText, oldPass })
}

func TestLogin_StartsSessionAndLoads(t *testing.T) {
	ctx := context.Background()
	stubCredentials(t, "admin", "secret")
	ta := newTestApp(t, "", sample()...)
	ta.auth.session.DisplayName = "Site Admin"

	require.NoError(t, ta.Login(ctx))

	require.True(t, ta.isLoggedIn())
	assert.Equal(t, models.RoleAdmin, ta.engine.Role())
	assert.Equal(t, 3, ta.engine.Len())
	assert.Len(t, ta.engine.Directory(), 2)
	out := ta.buf.String()
	assert.Contains(t, out, "Hello, Site Admin (admin)")
	assert.Contains(t, out, "3 internal records loaded")
	assert.Equal(t, "(admin/admin internal)", ta.getStatus())
}

func TestLogin_UsesRememberedCategory(t *testing.T) {
	ctx := context.Background()
	stubCredentials(t, "admin", "secret")
	ta := newTestApp(t, "")
	require.NoError(t, ta.prefs.Remember(ctx, models.CategoryExternal))

	require.NoError(t, ta.Login(ctx))
	assert.Equal(t, models.CategoryExternal, ta.engine.Category())
}

func TestLogin_MapsErrors(t *testing.T) {
	stubCredentials(t, "admin", "wrong")
	ta := newTestApp(t, "")

	ta.auth.loginErr = client.ErrUnauthorized
	assert.EqualError(t, ta.Login(context.Background()), "invalid username or password")

	ta.auth.loginErr = client.ErrUnavailable
	assert.EqualError(t, ta.Login(context.Background()), "server unavailable, try again later")
	assert.False(t, ta.isLoggedIn())
}

func TestReload_ExpiresRejectedSession(t *testing.T) {
	ctx := context.Background()
	stubCredentials(t, "admin", "secret")
	ta := newTestApp(t, "", sample()...)
	require.NoError(t, ta.Login(ctx))

	ta.backend.fetchErr = client.ErrUnauthorized
	err := ta.Reload(ctx)

	var loadErr *register.LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.False(t, ta.isLoggedIn())
	assert.Equal(t, 1, ta.auth.logouts)
	assert.Contains(t, ta.buf.String(), "Session expired")
}

func TestWhoAmI(t *testing.T) {
	ta := newTestApp(t, "")
	assert.Error(t, ta.WhoAmI(context.Background()))

	ta.user = &models.Session{Username: "jdoe", DisplayName: "Jane Doe", Role: models.RoleManager}
	require.NoError(t, ta.WhoAmI(context.Background()))
	out := ta.buf.String()
	assert.Contains(t, out, "Jane Doe (jdoe)")
	assert.Contains(t, out, "department: -")
	assert.Contains(t, out, "role: manager")
}

func TestNotifyAndStatus(t *testing.T) {
	ta := newTestApp(t, "")
	assert.Equal(t, "", ta.getStatus())

	ta.setMode(ModeOnline)
	assert.Equal(t, "(online)", ta.getStatus())

	ta.Notify(register.Notice{Level: register.LevelWarning, Message: "careful"})
	assert.Equal(t, "[warning] careful\n", ta.buf.String())
}
