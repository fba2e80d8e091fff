package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"sysmon-agent/internal/agent"
	"sysmon-agent/internal/auth"
	"sysmon-agent/internal/config"
	"sysmon-agent/internal/logger"
	"sysmon-agent/internal/monitor"
	"sysmon-agent/internal/storage/snapshot"
	"sysmon-agent/internal/storage/sqlite"
	"sysmon-agent/internal/system"
	transporthttp "sysmon-agent/internal/transport/http"
	"sysmon-agent/internal/transport/websocket"
)

func main() {
	cfg := config.Load()

	mode := flag.String("mode", cfg.Mode, "run mode: serve, stream or snapshot")
	monitorsFile := flag.String("monitors", cfg.MonitorsFile, "path to the monitor definitions file")
	flag.Parse()

	cfg.Mode = config.ParseMode(*mode)
	cfg.MonitorsFile = *monitorsFile

	appLog := logger.New(cfg)

	defs, err := monitor.LoadFile(cfg.MonitorsFile)
	if err != nil {
		log.Fatalf("FATAL: failed to load monitors: %v", err)
	}

	monitors := monitor.Build(defs, system.NewReader(appLog), appLog, monitor.Options{
		Interval: cfg.Interval,
		Timeout:  cfg.SampleTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var opts []agent.Option

	if cfg.Mode == config.ModeServe {
		store := snapshot.NewReadingStore()
		verifier := auth.NewVerifier(cfg.JWTSecret)
		if !verifier.Enabled() {
			appLog.Warn("JWT_SECRET is empty, the http api is unauthenticated")
		}

		var history transporthttp.ReadingFinder
		if cfg.DatabasePath != "" {
			db, err := sqlite.NewSqliteDB(cfg.DatabasePath, appLog)
			if err != nil {
				log.Fatalf("FATAL: %v", err)
			}
			defer db.Close()

			repo := sqlite.NewReadingRepository(db)
			history = repo
			opts = append(opts, agent.WithRepository(repo))
		}

		hub := websocket.NewHub(appLog)
		wsHandler := websocket.NewHandler(hub, verifier, cfg.AllowedOrigins, appLog)
		handler := transporthttp.NewHandler(store, history, monitors)
		server := transporthttp.NewServer(cfg, handler, wsHandler, verifier, appLog)

		opts = append(opts,
			agent.WithStore(store),
			agent.WithHub(hub),
			agent.WithServer(server),
		)
	}

	a := agent.New(cfg, appLog, monitors, opts...)

	if err := a.Run(ctx); err != nil && err != context.Canceled {
		appLog.Error("agent failed unexpectedly", "error", err)
		stop()
		log.Fatal(err)
	}

	appLog.Info("agent stopped gracefully.")
}
