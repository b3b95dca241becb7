package store

import (
	"context"

	"cafeconnect/internal/repositories"
)

// MemoryStore keeps everything in process memory. Data is lost on shutdown.
type MemoryStore struct {
	cafes  *repositories.MemoryCafeRepository
	menus  *repositories.MemoryMenuRepository
	users  *repositories.MemoryUserRepository
	orders *repositories.MemoryOrderRepository
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		cafes:  repositories.NewMemoryCafeRepository(),
		menus:  repositories.NewMemoryMenuRepository(),
		users:  repositories.NewMemoryUserRepository(),
		orders: repositories.NewMemoryOrderRepository(),
	}
}

func (s *MemoryStore) Cafes() repositories.CafeRepository   { return s.cafes }
func (s *MemoryStore) Menus() repositories.MenuRepository   { return s.menus }
func (s *MemoryStore) Users() repositories.UserRepository   { return s.users }
func (s *MemoryStore) Orders() repositories.OrderRepository { return s.orders }

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Collections(ctx context.Context) ([]string, error) {
	return []string{
		repositories.CafesCollection,
		repositories.MenusCollection,
		repositories.OrdersCollection,
		repositories.UsersCollection,
	}, nil
}

// SyncIndexes has nothing to build; email uniqueness is enforced by the user repository.
func (s *MemoryStore) SyncIndexes(ctx context.Context) ([]IndexSync, error) {
	report := make([]IndexSync, 0, len(declaredIndexes))
	for _, decl := range declaredIndexes {
		report = append(report, IndexSync{Collection: decl.Collection})
	}
	return report, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }
