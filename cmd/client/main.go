package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dmitrijs2005/auditdesk/internal/client/cli"
	"github.com/dmitrijs2005/auditdesk/internal/client/config"
	"github.com/dmitrijs2005/auditdesk/internal/filex"
	"github.com/dmitrijs2005/auditdesk/internal/logging"
)

const logFile = "auditdesk.log"

func main() {

	cfg := config.LoadConfig()

	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// The console owns stdout, so the client logs to a file.
	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()

	logger := logging.NewText(f, slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
