// Command gradewatch monitors a university portal for grade changes and
// notifies over Telegram. It runs as a periodic daemon by default, as a
// one-shot check with -once, or as a small HTTP service with -serve where
// each POST /run executes one cycle.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/gradewatch/cache"
	"github.com/hazyhaar/gradewatch/extract"
	"github.com/hazyhaar/gradewatch/grades"
	"github.com/hazyhaar/gradewatch/monitor"
	"github.com/hazyhaar/gradewatch/notify"
	"github.com/hazyhaar/gradewatch/portal"
)

func main() {
	var (
		configPath = flag.String("config", "gradewatch.yaml", "path to the YAML configuration file")
		once       = flag.Bool("once", false, "run a single cycle, print the parsed snapshot and exit")
		serveAddr  = flag.String("serve", "", "listen address for HTTP trigger mode (e.g. :8085)")
		headful    = flag.Bool("headful", false, "run the browser with a visible window")
		logLevel   = flag.String("log-level", env("LOG_LEVEL", "info"), "debug, info, warn or error")
	)
	flag.Parse()

	var lvl slog.Level
	switch *logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	if *headful {
		cfg.Browser.Headful = true
	}
	if cfg.Credentials.Username == "" || cfg.Credentials.Password == "" {
		slog.Error("UNI_USER and UNI_PASS are required")
		os.Exit(1)
	}

	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		slog.Error("cache", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	catalog, err := grades.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		slog.Error("catalog", "error", err)
		os.Exit(1)
	}
	if len(catalog) == 0 && cfg.CatalogPath != "" {
		slog.Warn("course catalog empty or missing, using raw course names",
			"path", cfg.CatalogPath)
	}

	launcher := portal.NewLauncher(cfg.Browser)
	if err := launcher.Start(ctx); err != nil {
		slog.Error("browser", "error", err)
		os.Exit(1)
	}
	defer launcher.Close()

	m := buildMonitor(cfg, store, catalog, launcher, logger)

	switch {
	case *once:
		err = runOnce(ctx, m, store, cfg, catalog)
	case *serveAddr != "":
		err = serve(ctx, m, *serveAddr, logger)
	default:
		slog.Info("daemon mode", "interval", cfg.Interval)
		err = m.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("gradewatch", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the file and layers the environment on top: credentials
// and tokens never live in the file.
func loadConfig(path string) (*monitor.Config, error) {
	cfg, err := monitor.LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// No file is fine; defaults plus environment carry a full setup.
		cfg = &monitor.Config{}
		cfg.ApplyDefaults()
	} else if err != nil {
		return nil, err
	}

	cfg.Credentials = portal.Credentials{
		Username:   env("UNI_USER", ""),
		Password:   env("UNI_PASS", ""),
		NationalID: env("UNI_ID", ""),
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notify.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notify.TelegramChatID = v
	}
	if v := os.Getenv("TRIGGER_URL"); v != "" {
		cfg.Notify.TriggerURL = v
	}
	return cfg, nil
}

func buildMonitor(cfg *monitor.Config, store *cache.Store, catalog grades.Catalog,
	launcher *portal.Launcher, logger *slog.Logger) *monitor.Monitor {

	artifacts := portal.NewArtifacts(cfg.ArtifactDir, logger)
	flow := portal.NewFlow(portal.FlowConfig{
		GradesURL:    cfg.Portal.GradesURL,
		Credentials:  cfg.Credentials,
		Deadline:     cfg.Portal.Deadline,
		PollInterval: cfg.Portal.PollInterval,
		QuietWait:    cfg.Portal.QuietWait,
		Artifacts:    artifacts,
		Logger:       logger,
	})

	var notifier notify.Notifier = notify.Discard{}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		notifier = notify.NewTelegram(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID,
			notify.WithLogger(logger))
	} else {
		logger.Warn("telegram not configured, notifications are discarded")
	}

	return monitor.New(cfg, monitor.Deps{
		Strategies: []extract.Strategy{
			extract.NewAPI(launcher, flow, cfg.API, logger),
			extract.NewDOM(launcher, flow, cfg.DOM, artifacts, logger),
		},
		Store:    store,
		Notifier: notifier,
		Trigger:  notify.NewTrigger(cfg.Notify.TriggerURL, logger),
		Catalog:  catalog,
		Logger:   logger,
	})
}

// runOnce executes one cycle and prints the resulting snapshot so a scraper
// change can be eyeballed before it goes unattended.
func runOnce(ctx context.Context, m *monitor.Monitor, store *cache.Store,
	cfg *monitor.Config, catalog grades.Catalog) error {

	if err := m.RunCycle(ctx); err != nil {
		return err
	}
	snap, err := store.Read(ctx, cfg.Cache.Key)
	if err != nil {
		return err
	}
	fmt.Println(monitor.Preview(snap, catalog))
	return nil
}

// serve exposes the cycle over HTTP: POST /run executes one cycle, GET
// /healthz answers liveness probes. Cycles are serialized; a run request
// while one is in flight gets 409.
func serve(ctx context.Context, m *monitor.Monitor, addr string, logger *slog.Logger) error {
	var running sync.Mutex

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Post("/run", func(w http.ResponseWriter, req *http.Request) {
		if !running.TryLock() {
			http.Error(w, "cycle already running", http.StatusConflict)
			return
		}
		defer running.Unlock()

		if err := m.RunCycle(req.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		fmt.Fprintln(w, "cycle complete")
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("http trigger mode", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
