package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"surfwatch/internal/alert"
	"surfwatch/internal/audit"
	"surfwatch/internal/classify"
	"surfwatch/internal/config"
	"surfwatch/internal/engine"
	"surfwatch/internal/federation"
	"surfwatch/internal/server"
	"surfwatch/internal/session"
	"surfwatch/internal/store"
)

var (
	serveConfig string
	serveListen string
	serveDBPath string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to config YAML (default ~/.surfwatch/config.yaml)")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "SQLite database path (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ingest/query API",
	Long: "Runs surfwatch as a local HTTP service. Navigation sensors and content\n" +
		"probes POST events here; the presentation layer reads domain views back.\n" +
		"Supports hot-reload of the config file.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, hash, err := config.LoadWithHash(serveConfig)
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	if serveDBPath != "" {
		cfg.DBPath = serveDBPath
	}

	logger := log.New(os.Stderr, "surfwatch: ", log.LstdFlags)
	logger.Printf("config %s", hash)

	kv, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer kv.Close()

	var decisions *audit.Log
	if cfg.AuditLog != "" {
		decisions, err = audit.Open(cfg.AuditLog)
		if err != nil {
			return fmt.Errorf("open decision log: %w", err)
		}
		defer decisions.Close()
	}

	tracker := session.NewTracker(
		session.WithMaxAge(cfg.SessionMaxAge()),
		session.WithMaxEvents(cfg.Session.MaxEventsPerTab),
	)
	defer tracker.Close()

	queue := store.NewUpdateQueue(cfg.QueueDepth, logger)
	defer queue.Close()

	var classifierOpts []classify.Option
	if order := cfg.PrecedenceLevels(); order != nil {
		classifierOpts = append(classifierOpts, classify.WithPrecedence(order))
	}

	eng, err := engine.New(engine.Options{
		Classifier:         classify.New(classifierOpts...),
		Inferrer:           federation.NewInferrer(cfg.KnownIdPs...),
		Tracker:            tracker,
		Repo:               store.NewRepo(kv),
		Queue:              queue,
		Decisions:          decisions,
		Alerts:             alert.NewDispatcher(cfg.Webhooks),
		Logger:             logger,
		Thresholds:         cfg.Thresholds,
		EventTTL:           cfg.EventTTL(),
		DomainTTL:          cfg.DomainTTL(),
		CleanupMinInterval: cfg.CleanupMinInterval(),
	})
	if err != nil {
		return err
	}

	srv := server.New(eng, cfg.RateLimit, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Printf("listening on %s", cfg.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	// Hot-reload of decision thresholds.
	if reloader, err := config.NewReloader(configWatchPath(serveConfig), func(next *config.Config) {
		eng.SetThresholds(next.Thresholds)
	}); err == nil {
		g.Go(func() error { return reloader.Run(ctx) })
	} else {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	}

	return g.Wait()
}

func configWatchPath(flag string) string {
	if flag != "" {
		return flag
	}
	return config.DefaultDir() + "/config.yaml"
}
