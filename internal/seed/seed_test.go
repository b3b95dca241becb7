package seed_test

import (
	"context"
	"io"
	"os"
	"testing"

	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"
	"cafeconnect/internal/seed"
	"cafeconnect/internal/store"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func openSQLite(t *testing.T) *store.GORMStore {
	t.Helper()
	s, err := store.OpenGORM(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestSeed_RunTwice(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	for run := 1; run <= 2; run++ {
		summary, err := seed.Seed(ctx, s)
		require.NoError(t, err, "run %d", run)
		assert.Equal(t, &seed.Summary{Menus: 6, Users: 3}, summary, "run %d", run)
	}

	menus, err := s.Menus().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, menus, len(seed.Menus()))
	users, err := s.Users().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(seed.Users()))
}

func TestSeed_LeavesCafesAndHashesPasswords(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	cafe := models.NewCafe()
	cafe.Name, cafe.Location = "Kopi Pagi", "Jakarta"
	require.NoError(t, s.Cafes().Create(ctx, cafe))

	_, err := seed.Seed(ctx, s)
	require.NoError(t, err)

	n, err := s.Cafes().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	admin, err := s.Users().GetByEmail(ctx, "admin@cafeconnect.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NotEqual(t, "admin123", admin.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin123")))

	menus, err := s.Menus().GetAll(ctx)
	require.NoError(t, err)
	premium := 0
	for _, m := range menus {
		assert.True(t, m.IsAvailable, m.Name)
		if m.IsPremium {
			premium++
			assert.Equal(t, "Luwak Coffee", m.Name)
		}
	}
	assert.Equal(t, 1, premium)
}

func TestSyncIndexes(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)
	_, err := seed.Seed(ctx, s)
	require.NoError(t, err)

	synced, counts, err := seed.SyncIndexes(ctx, s)
	require.NoError(t, err)
	assert.NotEmpty(t, synced)
	assert.EqualValues(t, 6, counts[repositories.MenusCollection])
	assert.EqualValues(t, 3, counts[repositories.UsersCollection])
	assert.EqualValues(t, 0, counts[repositories.OrdersCollection])
}
