package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps cart sessions between cashier requests.
type Store interface {
	Get(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	cart      Cart
	expiresAt time.Time
}

// MemoryStore keeps carts in process memory. Entries expire ttl after their last use.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.carts[id]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.carts, id)
		return nil, fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	entry.expiresAt = s.now().Add(s.ttl)
	s.carts[id] = entry
	c := entry.cart
	c.Items = slices.Clone(c.Items)
	return &c, nil
}

func (s *MemoryStore) Save(ctx context.Context, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	stored.Items = slices.Clone(c.Items)
	s.carts[c.ID] = memoryEntry{cart: stored, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[id]; !ok {
		return fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	delete(s.carts, id)
	return nil
}

// RedisStore keeps carts as JSON values under cart:<id> with a sliding TTL.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: client, TTL: ttl}
}

func (s *RedisStore) key(id string) string {
	return "cart:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Cart, error) {
	raw, err := s.Client.GetEx(ctx, s.key(id), s.TTL).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("cart %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load cart %s: %w", id, err)
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", id, err)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", c.ID, err)
	}
	if err := s.Client.Set(ctx, s.key(c.ID), payload, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", c.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.Client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	return nil
}
