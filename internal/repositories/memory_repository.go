package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"cafeconnect/internal/models"

	"github.com/google/uuid"
)

// memoryRepository implements Repository[T] with a mutex-guarded map. It backs the
// "memory" store driver used for demos and tests.
type memoryRepository[T any, P models.Document[T]] struct {
	mu     sync.RWMutex
	docs   map[string]T
	order  []string // insertion order, oldest first
	entity string
	// unique returns the value that must be unique across documents, if any.
	unique func(*T) string
}

func newMemoryRepository[T any, P models.Document[T]](entity string, unique func(*T) string) *memoryRepository[T, P] {
	return &memoryRepository[T, P]{
		docs:   make(map[string]T),
		entity: entity,
		unique: unique,
	}
}

func (r *memoryRepository[T, P]) GetAll(ctx context.Context) ([]T, error) {
	return r.filter(func(*T) bool { return true }), nil
}

func (r *memoryRepository[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s with ID %s %w", r.entity, id, ErrNotFound)
	}
	return &doc, nil
}

func (r *memoryRepository[T, P]) Create(ctx context.Context, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := P(doc)
	if p.GetID() == "" {
		p.SetID(uuid.New().String())
	}
	if _, exists := r.docs[p.GetID()]; exists {
		return fmt.Errorf("failed to create %s: %w", r.entity, ErrDuplicate)
	}
	if r.conflicts(doc) {
		return fmt.Errorf("failed to create %s: %w", r.entity, ErrDuplicate)
	}
	now := models.Now()
	p.SetTimestamps(now, now)
	r.docs[p.GetID()] = *doc
	r.order = append(r.order, p.GetID())
	return nil
}

func (r *memoryRepository[T, P]) Update(ctx context.Context, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := P(doc)
	if _, ok := r.docs[p.GetID()]; !ok {
		return fmt.Errorf("%s with ID %s %w", r.entity, p.GetID(), ErrNotFound)
	}
	if r.conflicts(doc) {
		return fmt.Errorf("failed to update %s: %w", r.entity, ErrDuplicate)
	}
	p.SetTimestamps(p.GetCreatedAt(), models.Now())
	r.docs[p.GetID()] = *doc
	return nil
}

func (r *memoryRepository[T, P]) Delete(ctx context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s with ID %s %w", r.entity, id, ErrNotFound)
	}
	delete(r.docs, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return &doc, nil
}

func (r *memoryRepository[T, P]) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.docs))
	r.docs = make(map[string]T)
	r.order = nil
	return n, nil
}

func (r *memoryRepository[T, P]) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}

// filter returns matching documents, newest first.
func (r *memoryRepository[T, P]) filter(keep func(*T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		doc := r.docs[r.order[i]]
		if keep(&doc) {
			out = append(out, doc)
		}
	}
	return out
}

// conflicts must be called with the lock held.
func (r *memoryRepository[T, P]) conflicts(doc *T) bool {
	if r.unique == nil {
		return false
	}
	key := r.unique(doc)
	id := P(doc).GetID()
	for otherID, other := range r.docs {
		if otherID != id && r.unique(&other) == key {
			return true
		}
	}
	return false
}

// MemoryCafeRepository is an in-memory implementation of CafeRepository.
type MemoryCafeRepository struct {
	*memoryRepository[models.Cafe, *models.Cafe]
}

// NewMemoryCafeRepository creates a new instance of MemoryCafeRepository.
func NewMemoryCafeRepository() *MemoryCafeRepository {
	return &MemoryCafeRepository{newMemoryRepository[models.Cafe, *models.Cafe]("cafe", nil)}
}

// MemoryMenuRepository is an in-memory implementation of MenuRepository.
type MemoryMenuRepository struct {
	*memoryRepository[models.Menu, *models.Menu]
}

// NewMemoryMenuRepository creates a new instance of MemoryMenuRepository.
func NewMemoryMenuRepository() *MemoryMenuRepository {
	return &MemoryMenuRepository{newMemoryRepository[models.Menu, *models.Menu]("menu", nil)}
}

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	*memoryRepository[models.User, *models.User]
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{newMemoryRepository[models.User, *models.User]("user", func(u *models.User) string {
		return models.NormalizeEmail(u.Email)
	})}
}

// GetByEmail retrieves a user by email.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	key := models.NormalizeEmail(email)
	users := r.filter(func(u *models.User) bool { return u.Email == key })
	if len(users) == 0 {
		return nil, fmt.Errorf("user with email %s %w", email, ErrNotFound)
	}
	return &users[0], nil
}

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	*memoryRepository[models.Order, *models.Order]
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{newMemoryRepository[models.Order, *models.Order]("order", nil)}
}

// GetByUserID returns a user's orders, most recent order date first.
func (r *MemoryOrderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	orders := r.filter(func(o *models.Order) bool { return o.UserID == userID })
	slices.SortStableFunc(orders, func(a, b models.Order) int {
		return b.OrderDate.Compare(a.OrderDate)
	})
	return orders, nil
}

// GetByCafeID returns a cafe's orders, optionally restricted to one status.
func (r *MemoryOrderRepository) GetByCafeID(ctx context.Context, cafeID string, status models.OrderStatus) ([]models.Order, error) {
	return r.filter(func(o *models.Order) bool {
		return o.CafeID == cafeID && (status == "" || o.Status == status)
	}), nil
}
