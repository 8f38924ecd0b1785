package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ontoserver/internal/codec"
	"ontoserver/internal/config"
	"ontoserver/internal/handler"
	"ontoserver/internal/hub"
	"ontoserver/internal/metrics"
	"ontoserver/internal/repository"
	"ontoserver/internal/repository/sqlite"
	"ontoserver/internal/service"
	"ontoserver/internal/store"
	"ontoserver/internal/watcher"
)

// serveOptions are flags that override the config file
type serveOptions struct {
	configPath string
	addr       string
	ontology   string
	dbPath     string
	watch      bool
}

func (o *serveOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&o.addr, "addr", "", "HTTP listen address")
	flags.StringVar(&o.ontology, "ontology", "", "Ontology document loaded at startup")
	flags.StringVar(&o.dbPath, "db", "", "SQLite snapshot database path")
	flags.BoolVar(&o.watch, "watch", false, "Reload the ontology document when it changes")
}

func (o serveOptions) load() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if o.configPath != "" {
		if cfg, path, err = config.LoadFromPath(o.configPath); err != nil {
			return nil, path, err
		}
		if err := cfg.ApplyEnv(); err != nil {
			return nil, path, err
		}
	} else if cfg, path, err = config.Load(); err != nil {
		return nil, path, err
	}

	if o.addr != "" {
		cfg.Server.Addr = o.addr
	}
	if o.ontology != "" {
		cfg.Ontology.Path = o.ontology
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.watch {
		cfg.Ontology.Watch = true
	}
	return cfg, path, cfg.Validate()
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, cfgPath, err := opts.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	if cfgPath == "" {
		cfgPath = "(defaults)"
	}
	logger.WithFields(logrus.Fields{
		"version": Version,
		"config":  cfgPath,
	}).Infof("starting %s: %s", appName, cfg.Summary())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New()
	if err != nil {
		return err
	}

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	var repo repository.Repository
	if cfg.Database.Path != "" {
		sqliteRepo, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer sqliteRepo.Close()
		repo = sqliteRepo
		logger.WithField("path", cfg.Database.Path).Info("snapshot database opened")
	} else {
		logger.Info("snapshot storage disabled")
	}

	eventBus := service.NewEventBus()
	svc := service.NewOntologyService(service.Options{
		Store:         st,
		Codecs:        codec.DefaultRegistry(),
		Repository:    repo,
		EventBus:      eventBus,
		Metrics:       m,
		Logger:        logger,
		DefaultFormat: cfg.Ontology.DownloadFormat,
	})

	// SSE hub fed from the event bus
	sseHub := hub.New(logger)
	go sseHub.Run(ctx)
	events, unsubscribe := eventBus.Subscribe(100)
	defer unsubscribe()
	go hub.Forward[service.Event](ctx, sseHub, events)

	if cfg.Ontology.Path != "" {
		if _, err := svc.LoadFile(ctx, cfg.Ontology.Path, cfg.Ontology.Format); err != nil {
			return fmt.Errorf("load ontology: %w", err)
		}
		if cfg.Ontology.Watch {
			startWatcher(ctx, svc, cfg, logger)
		}
	}

	mux := http.NewServeMux()
	handler.NewOntologyHandler(svc, logger).Register(mux)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.Chain(mux,
			handler.Recover(logger),
			handler.CORS(cfg.Server.CORSOrigins),
			handler.Logger(logger),
		),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("server listening")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server shutdown error")
	}

	logger.WithField("droppedEvents", eventBus.Dropped()).Info("server stopped")
	return nil
}

// startWatcher reloads the ontology document whenever it changes on disk
func startWatcher(ctx context.Context, svc *service.OntologyService, cfg *config.Config, logger logrus.FieldLogger) {
	w := watcher.New(cfg.Ontology.Path, func(path string) {
		desc, err := svc.LoadFile(ctx, path, cfg.Ontology.Format)
		if err != nil {
			logger.WithError(err).WithField("path", path).Warn("failed to reload ontology, keeping previous state")
			return
		}
		logger.WithField("ontology", desc.UniqueName).Info("ontology reloaded")
	}, logger).WithDebounce(cfg.Ontology.WatchDebounce.Duration())

	go func() {
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("ontology watcher stopped")
		}
	}()
}
