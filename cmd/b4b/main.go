// @title         b4b API
// @version       0.1.0
// @description   Expense ingestion, batch normalization and spending reports

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"b4b/internal/adapters/telegram"
	"b4b/internal/core/version"
	"b4b/internal/platform/config"
	"b4b/internal/platform/logger"
	"b4b/internal/platform/metrics"
	phttp "b4b/internal/platform/net/http"
	"b4b/internal/platform/store"

	"b4b/internal/services/api"

	"golang.org/x/sync/errgroup"
)

func main() {
	root := config.New()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// open the platform store, goose runs right after the first good ping
	st, err := store.Open(ctx, store.FromConfig(root, "b4b"), *l)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer st.Close()

	m := metrics.New()
	opt := api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Metrics:        m,
		EnableSwagger:  root.MayBool("API_SWAGGER", false),
		EnableProfiler: root.MayBool("API_PROFILER", false),
		EnableMetrics:  root.MayBool("METRICS_ENABLED", true),
	}
	app, err := api.Build(opt)
	if err != nil {
		l.Fatal().Err(err).Msg("module wiring failed")
	}

	tg, err := telegram.FromConfig(root)
	if err != nil {
		l.Fatal().Err(err).Msg("telegram options")
	}

	diagnostics(ctx, root, st, app, tg)

	srv := phttp.NewServer(root)
	api.Mount(srv.Router(), app, opt)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return srv.Run(gctx) })

	g.Go(func() error { return app.Scheduler.Run(gctx) })

	if tg.Enabled {
		botAPI, err := telegram.Dial(tg)
		if err != nil {
			l.Fatal().Err(err).Msg("telegram authorize failed")
		}
		l.Info().Str("bot", botAPI.Self.UserName).Msg("telegram authorized")
		bot := telegram.New(botAPI, telegram.Deps{
			Acceptor: app.Acceptor,
			Runner:   app.Runner,
			Reports:  app.Reports,
			Status:   app.Status,
		}, tg)
		g.Go(func() error { return bot.Run(gctx) })
	} else {
		l.Info().Msg("telegram disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Error().Err(err).Msg("b4b stopped with error")
		return
	}
	l.Info().Msg("b4b stopped")
}

// diagnostics logs the effective setup with secrets masked
func diagnostics(ctx context.Context, root config.Conf, st *store.Store, app *api.App, tg telegram.Options) {
	l := logger.Named("startup")

	b := version.Info("b4b")
	l.Info().
		Str("version", b.Version).
		Str("commit", b.Commit).
		Str("db", root.Masked("SERVICE_PGSQL_DBURL")).
		Str("llm_base_url", root.MayString("LLM_BASE_URL", "")).
		Str("llm_api_key", root.Masked("LLM_API_KEY")).
		Str("telegram_token", root.Masked("TELEGRAM_BOT_TOKEN")).
		Bool("telegram", tg.Enabled).
		Int("allowed_chats", len(tg.AllowedChats)).
		Str("schedule", app.Scheduler.Spec()).
		Msg("b4b starting")

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := st.Ping(pctx); err != nil {
		l.Error().Err(err).Msg("database check failed")
		return
	}
	cur, err := app.Cursor.Get(pctx)
	if err != nil {
		l.Warn().Err(err).Msg("cursor read failed")
		return
	}
	l.Info().Int64("cursor", cur).Msg("database ok")
}
