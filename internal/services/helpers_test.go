package services_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"cafeconnect/internal/events"
	"cafeconnect/internal/models"
	"cafeconnect/internal/services"
	"cafeconnect/internal/store"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// body decodes a JSON literal the way the HTTP handlers decode request bodies.
func body(payload string) services.Decoder {
	return func(dst any) error {
		return json.Unmarshal([]byte(payload), dst)
	}
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.OrderEvent) error {
	return m.Called(event.Type, event.OrderID).Error(0)
}

// fixture is a memory store holding one cafe and one user for orders to reference.
type fixture struct {
	store store.Store
	cafe  *models.Cafe
	user  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()

	cafe := models.NewCafe()
	cafe.Name = "Kopi Kenangan"
	cafe.Location = "Jakarta"
	require.NoError(t, s.Cafes().Create(ctx, cafe))

	user := models.NewUser()
	user.Name = "Cashier"
	user.Email = "cashier@cafeconnect.com"
	user.Password = "not-a-real-hash"
	require.NoError(t, s.Users().Create(ctx, user))

	return &fixture{store: s, cafe: cafe, user: user}
}

func (f *fixture) orderService(publisher services.EventPublisher) *services.OrderService {
	return services.NewOrderService(f.store.Orders(), f.store.Cafes(), f.store.Users(), publisher, "http://localhost:5000/api")
}

func (f *fixture) addMenu(t *testing.T, name string, price float64, available bool) *models.Menu {
	t.Helper()
	menu := models.NewMenu()
	menu.Name = name
	menu.Description = name + " from the house roastery"
	menu.Price = models.Float(price)
	menu.IsAvailable = available
	require.NoError(t, f.store.Menus().Create(context.Background(), menu))
	return menu
}
