// Command syncindexes reconciles the store's indexes with the ones declared on the
// models and prints per-collection document counts. It is safe to run at any time.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"cafeconnect/internal/config"
	"cafeconnect/internal/seed"
	"cafeconnect/internal/store"
	"cafeconnect/pkg/logger"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const timeout = time.Minute

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.WithError(err).Fatal("Index sync failed")
	}
}

func run(args []string) error {
	cfg, err := config.Load("syncindexes", args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to close database connection")
		}
	}()

	if _, _, err := seed.SyncIndexes(ctx, s); err != nil {
		return err
	}
	log.Info("All models synced successfully")
	return nil
}
