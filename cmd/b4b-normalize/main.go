package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"b4b/internal/modkit"
	"b4b/internal/modkit/module"
	"b4b/internal/platform/config"
	"b4b/internal/platform/logger"
	"b4b/internal/platform/store"

	"b4b/internal/adapters/llm"
	normdom "b4b/internal/services/normalizer/domain"
	normmod "b4b/internal/services/normalizer/module"
	rawmod "b4b/internal/services/rawmessages/module"
)

func main() {
	fID := flag.Int64("id", 0, "normalize a single raw message id instead of the oldest batch")
	flag.Parse()

	root := config.New()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// schema changes are left to the api and b4b-migrate
	sc := store.FromConfig(root, "b4b-normalize")
	sc.Migrate = false
	st, err := store.Open(ctx, sc, *l)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer st.Close()

	lo, err := llm.FromConfig(root)
	if err != nil {
		l.Fatal().Err(err).Msg("llm options")
	}

	deps := modkit.Deps{Cfg: root, PG: st.PG, Log: *l}
	raw := rawmod.New(deps)
	rawPorts := module.MustPortsOf[rawmod.Ports](raw)

	mod, err := normmod.New(deps, normmod.Inputs{
		Reader: rawPorts.Reader,
		Marker: rawPorts.Marker,
		LLM:    llm.NewClient(lo, nil),
	})
	if err != nil {
		l.Fatal().Err(err).Msg("normalizer wiring failed")
	}
	runner := module.MustPortsOf[normmod.Ports](mod).Runner

	var rep normdom.RunReport
	if *fID > 0 {
		rep, err = runner.ProcessOne(ctx, *fID)
	} else {
		rep, err = runner.Run(ctx)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rep)

	if err != nil {
		l.Error().Err(err).Msg("normalize failed")
		os.Exit(1)
	}
}
