package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/langcorrect-backend/internal/adapter/notify"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres"
	auditrepo "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/audit"
	entryrepo "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/entry"
	feedbackrepo "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/feedback"
	ledgerrepo "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/ledger"
	rowrepo "github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/sentencerow"
	"github.com/heartmarshall/langcorrect-backend/internal/auth"
	"github.com/heartmarshall/langcorrect-backend/internal/config"
	"github.com/heartmarshall/langcorrect-backend/internal/segment"
	"github.com/heartmarshall/langcorrect-backend/internal/service/correction"
	entrysvc "github.com/heartmarshall/langcorrect-backend/internal/service/entry"
	"github.com/heartmarshall/langcorrect-backend/internal/transport/middleware"
	"github.com/heartmarshall/langcorrect-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, builds the services and serves HTTP until ctx is cancelled,
// then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	started := time.Now()
	seg, err := segment.New(segment.Options{
		Punkt:    cfg.Segmenter.Punkt,
		Japanese: cfg.Segmenter.Japanese,
		Chinese:  cfg.Segmenter.Chinese,
	})
	if err != nil {
		return fmt.Errorf("build segmenter: %w", err)
	}
	logger.Info("segmenter ready", slog.Duration("took", time.Since(started)))

	publisher, err := notify.New(ctx, cfg.Notify, logger)
	if err != nil {
		return fmt.Errorf("build notifier: %w", err)
	}
	defer publisher.Close() //nolint:errcheck

	// --- Repositories ---

	entries := entryrepo.New(pool)
	rows := rowrepo.New(pool)
	feedback := feedbackrepo.New(pool)
	ledgers := ledgerrepo.New(pool)
	audit := auditrepo.New(pool)

	// --- Services ---

	entryService := entrysvc.NewService(logger, entries, rows, seg, audit, txm, cfg.Corrections.MaxBodyLength)
	correctionService := correction.NewService(logger, entries, rows, feedback, ledgers, publisher, audit, txm, correction.Limits{
		MaxBatchItems:       cfg.Corrections.MaxBatchItems,
		MaxCorrectionLength: cfg.Corrections.MaxCorrectionLength,
		MaxNoteLength:       cfg.Corrections.MaxNoteLength,
		MaxCommentLength:    cfg.Corrections.MaxCommentLength,
		UpsertRetries:       cfg.Corrections.UpsertRetries,
	})

	// --- HTTP ---

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	var writeLimit middleware.Middleware
	if cfg.Corrections.WritesPerMinute > 0 {
		limiter := middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		writeLimit = limiter.Limit(cfg.Corrections.WritesPerMinute)
	}

	router := rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler(BuildVersion(),
			rest.Probe{Name: "database", Critical: true, Ping: pool.Ping},
			rest.Probe{Name: "notifier", Ping: publisher.Ping},
		),
		Entries:     rest.NewEntryHandler(entryService, logger),
		Corrections: rest.NewCorrectionHandler(correctionService, logger),
	}, middleware.RequireUser, writeLimit)

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwtManager),
		middleware.MaxBodyBytes(cfg.Server.MaxRequestBytes),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
