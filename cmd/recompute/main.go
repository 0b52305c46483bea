// Command recompute re-derives the is_corrected flag of every live entry from
// its active feedback and reports how many entries had drifted. It is
// intended to be invoked by an external cron job or after manual data fixes.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/langcorrect-backend/internal/adapter/notify"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/entry"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/feedback"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/ledger"
	"github.com/heartmarshall/langcorrect-backend/internal/adapter/postgres/sentencerow"
	"github.com/heartmarshall/langcorrect-backend/internal/app"
	"github.com/heartmarshall/langcorrect-backend/internal/config"
	"github.com/heartmarshall/langcorrect-backend/internal/service/correction"
)

func main() {
	batchSize := flag.Int("batch", 500, "entries per page")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := correction.NewService(logger,
		entry.New(pool),
		sentencerow.New(pool),
		feedback.New(pool),
		ledger.New(pool),
		notify.NewLog(logger),
		audit.New(pool),
		postgres.NewTxManager(pool),
		correction.DefaultLimits(),
	)

	started := time.Now()
	checked, flipped, err := svc.RecomputeAll(ctx, *batchSize)
	if err != nil {
		logger.Error("recompute failed",
			slog.String("error", err.Error()),
			slog.Int("checked", checked),
			slog.Int("flipped", flipped),
		)
		os.Exit(1)
	}

	logger.Info("recompute completed",
		slog.Int("checked", checked),
		slog.Int("flipped", flipped),
		slog.Duration("took", time.Since(started)),
	)
}
