// Command seed loads the sample coffee menu and user accounts.
//
// It DELETES every existing menu and user document before inserting the samples, so
// running it against a live database loses data. Cafes and orders are left alone.
// Running it twice leaves the same 6 menus and 3 users.
package main

import (
	"context"
	"errors"
	"fmt"
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
		log.WithError(err).Fatal("Seeding failed")
	}
}

func run(args []string) error {
	cfg, err := config.Load("seed", args)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "WARNING: seed deletes all menus and users before inserting the sample data.")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.WithField("driver", cfg.Database.Driver).Info("Connecting to database")
	s, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to close database connection")
		}
		log.Info("Database connection closed")
	}()

	_, err = seed.Seed(ctx, s)
	return err
}
