package store

import (
	"context"
	"fmt"
	"slices"

	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"
	"cafeconnect/pkg/logger"

	"gorm.io/gorm"
)

var tables = []any{&models.Cafe{}, &models.Menu{}, &models.User{}, &models.Order{}}

// GORMStore backs the store with a SQL database (PostgreSQL or SQLite).
type GORMStore struct {
	db *gorm.DB

	cafes  *repositories.GORMCafeRepository
	menus  *repositories.GORMMenuRepository
	users  *repositories.GORMUserRepository
	orders *repositories.GORMOrderRepository
}

// OpenGORM opens the SQL database and, when autoMigrate is set, creates or updates
// the tables and indexes.
func OpenGORM(dialector gorm.Dialector, autoMigrate bool) (*GORMStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.GORM(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if autoMigrate {
		if err := db.AutoMigrate(tables...); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
		}
	}
	return NewGORM(db), nil
}

// NewGORM wraps an already opened database.
func NewGORM(db *gorm.DB) *GORMStore {
	return &GORMStore{
		db:     db,
		cafes:  repositories.NewGORMCafeRepository(db),
		menus:  repositories.NewGORMMenuRepository(db),
		users:  repositories.NewGORMUserRepository(db),
		orders: repositories.NewGORMOrderRepository(db),
	}
}

func (s *GORMStore) Cafes() repositories.CafeRepository   { return s.cafes }
func (s *GORMStore) Menus() repositories.MenuRepository   { return s.menus }
func (s *GORMStore) Users() repositories.UserRepository   { return s.users }
func (s *GORMStore) Orders() repositories.OrderRepository { return s.orders }

func (s *GORMStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GORMStore) Collections(ctx context.Context) ([]string, error) {
	names, err := s.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// SyncIndexes runs the auto-migration, which creates missing tables, columns and the
// indexes declared in the model tags. Undeclared indexes are left in place.
func (s *GORMStore) SyncIndexes(ctx context.Context) ([]IndexSync, error) {
	db := s.db.WithContext(ctx)
	before := make(map[string][]string, len(tables))
	for _, table := range tables {
		names, err := s.indexes(db, table)
		if err != nil {
			return nil, err
		}
		before[tableName(db, table)] = names
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	report := make([]IndexSync, 0, len(tables))
	for _, table := range tables {
		names, err := s.indexes(db, table)
		if err != nil {
			return nil, err
		}
		name := tableName(db, table)
		result := IndexSync{Collection: name, Indexes: names}
		for _, idx := range names {
			if !slices.Contains(before[name], idx) {
				result.Created = append(result.Created, idx)
			}
		}
		report = append(report, result)
	}
	return report, nil
}

func (s *GORMStore) indexes(db *gorm.DB, table any) ([]string, error) {
	if !db.Migrator().HasTable(table) {
		return nil, nil
	}
	indexes, err := db.Migrator().GetIndexes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}
	names := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		names = append(names, idx.Name())
	}
	slices.Sort(names)
	return names, nil
}

func tableName(db *gorm.DB, table any) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(table); err != nil {
		return fmt.Sprintf("%T", table)
	}
	return stmt.Schema.Table
}

func (s *GORMStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
