package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/auditdesk/internal/client/client"
	"github.com/dmitrijs2005/auditdesk/internal/client/config"
	"github.com/dmitrijs2005/auditdesk/internal/client/models"
	"github.com/dmitrijs2005/auditdesk/internal/client/register"
	"github.com/dmitrijs2005/auditdesk/internal/client/services"
	"github.com/dmitrijs2005/auditdesk/internal/client/session"
	"github.com/dmitrijs2005/auditdesk/internal/filex"
	"github.com/dmitrijs2005/auditdesk/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// databaseFile is created inside the data directory.
const databaseFile = "auditdesk.db"

type App struct {
	config   *config.Config
	log      logging.Logger
	api      register.Backend
	auth     services.AuthService
	sessions *session.Store
	prefs    *services.CategoryPreference
	closeDB  func() error

	reader *bufio.Reader
	out    io.Writer

	user   *models.Session
	engine *register.Engine

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the local database under the data directory, connects the
// gRPC client and wires the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	repos, err := client.InitDatabase(ctx, filepath.Join(dir, databaseFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewAuditClient(c.ServerEndpointAddr)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	sessions := session.NewStore(repos.Metadata)
	return &App{
		config:   c,
		log:      log.With("module", "cli"),
		api:      api,
		auth:     services.NewAuthService(api, sessions),
		sessions: sessions,
		prefs:    services.NewCategoryPreference(repos.Metadata),
		closeDB:  repos.Close,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores or establishes a session, then serves the REPL until the
// user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer func() {
		_ = a.auth.Close(ctx)
		if a.closeDB != nil {
			_ = a.closeDB()
		}
	}()

	fmt.Fprintln(a.out, "Welcome to AuditDesk (type 'help' for commands)")

	if sess, err := a.auth.Restore(ctx); err == nil {
		a.startSession(ctx, sess)
	} else {
		_ = a.Login(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
	if a.engine != nil {
		a.engine.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.engine != nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) currentMode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the server every interval and tracks the
// connectivity mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(pingCtx)
			cancel()
			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	var parts []string
	if a.user != nil {
		parts = append(parts, a.user.Username+"/"+string(a.user.Role))
	}
	if a.engine != nil {
		parts = append(parts, string(a.engine.Category()))
	}
	if m := a.currentMode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Notify prints engine notices.
func (a *App) Notify(n register.Notice) {
	fmt.Fprintf(a.out, "[%s] %s\n", n.Level, n.Message)
}
