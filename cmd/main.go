package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee-diagnosis/config"
	telegram "coffee-diagnosis/internal/api"
	"coffee-diagnosis/internal/api/rest"
	"coffee-diagnosis/internal/api/rest/handler"
	"coffee-diagnosis/internal/container"
	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/domain/port"
	"coffee-diagnosis/internal/infrastructure/storage"
	"coffee-diagnosis/internal/infrastructure/vision"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"classifier", cfg.Classifier.Backend,
		"storage", cfg.Storage.Backend,
		"bot_enabled", cfg.TelegramToken != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := make(map[string]handler.Check)

	// Хранилище диагнозов
	blobs, closeBlobs, err := newBlobStore(ctx, cfg.Storage, checks)
	if err != nil {
		return err
	}
	defer closeBlobs()

	diagnosisRepo, err := storage.NewDiagnosisRepository(ctx, blobs)
	if err != nil {
		return fmt.Errorf("open diagnosis repository: %w", err)
	}

	// Классификатор. Ошибка загрузки модели не фатальна: запросы получат ErrModelUnavailable.
	classifier, closeClassifier := newClassifier(cfg.Classifier, checks)
	defer closeClassifier()

	appContainer := container.New(cfg.Thresholds, storage.NewMemoryUserRepository(), classifier, diagnosisRepo)

	errCh := make(chan error, 2)

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.DiagnosisService)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		go func() {
			slog.Info("bot is running")
			if err := bot.Run(ctx); err != nil {
				errCh <- fmt.Errorf("bot: %w", err)
			}
		}()
	}

	router := rest.NewRouter(rest.Dependencies{
		HealthHandler: handler.NewHealthHandler(checks),
		Diagnoses:     handler.NewDiagnoses(appContainer.DiagnosisService, handler.NewInFlight()),
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Classifier.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("stopped gracefully")
	return nil
}

// newBlobStore выбирает хранилище по STORAGE_BACKEND и регистрирует проверку для /health.
func newBlobStore(ctx context.Context, cfg config.StorageConfig, checks map[string]handler.Check) (port.BlobStore, func(), error) {
	switch cfg.Backend {
	case "redis":
		store, err := storage.NewRedisBlobStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected")
		checks["storage"] = store.Ping
		return store, func() { store.Close() }, nil

	case "postgres":
		pool, err := storage.ConnectPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		store, err := storage.NewPostgresBlobStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("database connected")
		checks["storage"] = store.Ping
		return store, pool.Close, nil

	case "memory":
		slog.Warn("memory storage selected, diagnoses are lost on restart")
		return storage.NewMemoryBlobStore(), func() {}, nil

	default:
		store, err := storage.NewFileBlobStore(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("create file store: %w", err)
		}
		slog.Info("file storage ready", "dir", cfg.Dir)
		return store, func() {}, nil
	}
}

// newClassifier выбирает классификатор по CLASSIFIER_BACKEND и регистрирует проверку для /health.
func newClassifier(cfg config.ClassifierConfig, checks map[string]handler.Check) (port.Classifier, func()) {
	switch cfg.Backend {
	case "remote":
		c := vision.NewRemoteClassifier(cfg.URL, cfg.Timeout)
		checks["classifier"] = c.Ready
		slog.Info("remote classifier configured", "url", cfg.URL)
		return c, func() {}

	case "static":
		slog.Warn("static classifier selected, every photo is reported healthy")
		return vision.NewStaticClassifier(entity.RawLabel{Label: "saludable", Confidence: 0.9}), func() {}

	default:
		c := vision.NewDNNClassifier(vision.DNNOptions{
			ModelPath:  cfg.ModelPath,
			ConfigPath: cfg.ModelConfigPath,
			LabelsPath: cfg.LabelsPath,
			InputSize:  cfg.InputSize,
			Softmax:    cfg.Softmax,
		})
		if err := c.Err(); err != nil {
			slog.Error("model not loaded, analyses will fail until it is fixed", "error", err)
		} else {
			slog.Info("model loaded", "model", cfg.ModelPath)
		}
		checks["classifier"] = func(context.Context) error { return c.Err() }
		return c, func() { c.Close() }
	}
}
