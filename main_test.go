package main

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"cafeconnect/internal/cart"
	"cafeconnect/internal/config"
	"cafeconnect/internal/events"

	"github.com/alicebob/miniredis/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestNewCartStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	carts, closeCarts, err := newCartStore(ctx, config.CartConfig{
		Store:     config.CartStoreRedis,
		RedisAddr: mr.Addr(),
		TTL:       time.Hour,
	})
	require.NoError(t, err)
	defer closeCarts()
	assert.IsType(t, &cart.RedisStore{}, carts)

	c := cart.New()
	require.NoError(t, carts.Save(ctx, c))
	got, err := carts.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestNewCartStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := newCartStore(context.Background(), config.CartConfig{Store: config.CartStoreRedis, RedisAddr: addr})
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestNewCartStore_Memory(t *testing.T) {
	carts, closeCarts, err := newCartStore(context.Background(), config.CartConfig{Store: config.CartStoreMemory, TTL: time.Hour})
	require.NoError(t, err)
	closeCarts()
	assert.IsType(t, &cart.MemoryStore{}, carts)

	_, _, err = newCartStore(context.Background(), config.CartConfig{Store: "memcached"})
	assert.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	p, err := newPublisher(config.EventsConfig{Broker: config.BrokerNone})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = newPublisher(config.EventsConfig{Broker: config.BrokerKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "orders"})
	require.NoError(t, err)
	assert.IsType(t, &events.KafkaPublisher{}, p)
	assert.NoError(t, p.Close())

	_, err = newPublisher(config.EventsConfig{Broker: "nats"})
	assert.ErrorContains(t, err, "unsupported event broker")
}
