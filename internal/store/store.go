package store

import (
	"context"
	"fmt"

	"cafeconnect/internal/config"
	"cafeconnect/internal/repositories"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

// Store is the explicitly constructed handle to the persistence layer. It is opened
// once by the caller, passed to the services that need it and closed on shutdown.
type Store interface {
	Cafes() repositories.CafeRepository
	Menus() repositories.MenuRepository
	Users() repositories.UserRepository
	Orders() repositories.OrderRepository

	Ping(ctx context.Context) error
	// Collections lists the collections (tables) present in the backing database.
	Collections(ctx context.Context) ([]string, error)
	// SyncIndexes brings the live indexes in line with the declared ones.
	SyncIndexes(ctx context.Context) ([]IndexSync, error)
	Close(ctx context.Context) error
}

// IndexSync describes what SyncIndexes did to one collection.
type IndexSync struct {
	Collection string   `json:"collection"`
	Indexes    []string `json:"indexes"`
	Created    []string `json:"created,omitempty"`
	Dropped    []string `json:"dropped,omitempty"`
}

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.AutoMigrate)
	case config.DriverPostgres:
		return OpenGORM(postgres.Open(cfg.DSN), cfg.AutoMigrate)
	case config.DriverSQLite:
		return OpenGORM(sqlite.Open(cfg.DSN), cfg.AutoMigrate)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Counts returns the number of documents in each collection.
func Counts(ctx context.Context, s Store) (map[string]int64, error) {
	counters := map[string]interface {
		Count(ctx context.Context) (int64, error)
	}{
		repositories.CafesCollection:  s.Cafes(),
		repositories.MenusCollection:  s.Menus(),
		repositories.UsersCollection:  s.Users(),
		repositories.OrdersCollection: s.Orders(),
	}
	counts := make(map[string]int64, len(counters))
	for name, c := range counters {
		n, err := c.Count(ctx)
		if err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, nil
}
