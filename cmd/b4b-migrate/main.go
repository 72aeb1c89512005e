package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"b4b/internal/platform/config"
	"b4b/internal/platform/logger"
	"b4b/internal/platform/store"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: b4b-migrate [up|down|status|version]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cmd := store.MigrateUp
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	l := logger.Get()
	url := config.New().Prefix("SERVICE_PGSQL_").MustString("DBURL")

	db, err := store.OpenSQL(url)
	if err != nil {
		l.Fatal().Err(err).Msg("open database failed")
	}
	defer db.Close()

	if err := store.Migrate(context.Background(), db, cmd, *l); err != nil {
		l.Error().Err(err).Str("command", cmd).Msg("migrate failed")
		os.Exit(1)
	}
}
