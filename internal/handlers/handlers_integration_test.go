package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"cafeconnect/internal/cart"
	"cafeconnect/internal/config"
	"cafeconnect/internal/models"
	"cafeconnect/internal/server"
	"cafeconnect/internal/services"
	"cafeconnect/internal/store"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

const testJWTSecret = "test_jwt_secret"

// TestMain silences request and application logs.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(enforced bool) *config.Config {
	return &config.Config{
		PublicAPIURL:   "http://localhost:5000/api",
		RequestTimeout: 5 * time.Second,
		CORSOrigins:    "*",
		Auth: config.AuthConfig{
			JWTSecret:     testJWTSecret,
			TokenTTL:      time.Hour,
			Enforced:      enforced,
			LoginAttempts: 100,
		},
	}
}

// setupApp builds the full API over an in-memory SQLite database private to the test.
func setupApp(t *testing.T, enforced bool) (*fiber.App, store.Store) {
	t.Helper()
	s, err := store.OpenGORM(sqlite.New(sqlite.Config{
		DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	app := server.New(testConfig(enforced), server.Dependencies{
		Store: s,
		Carts: cart.NewMemoryStore(time.Hour),
	})
	return app, s
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Count   *int              `json:"count"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

func call(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestCafeEndpoints(t *testing.T) {
	app, _ := setupApp(t, false)

	// defaults are applied on create
	status, env := call(t, app, http.MethodPost, "/api/cafes", map[string]any{"name": "Kopi Pagi", "location": "Jakarta"}, "")
	require.Equal(t, fiber.StatusCreated, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Cafe created successfully", env.Message)
	cafe := decode[models.Cafe](t, env)
	assert.NotEmpty(t, cafe.ID)
	assert.Zero(t, cafe.Rating)
	assert.True(t, cafe.IsOpen)
	assert.Equal(t, "08:00 - 22:00", cafe.OpeningHours)

	status, env = call(t, app, http.MethodGet, "/api/cafes", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)

	status, env = call(t, app, http.MethodGet, "/api/cafes?q=pagi", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, *env.Count)
	status, env = call(t, app, http.MethodGet, "/api/cafes?q=bandung", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0, *env.Count)

	status, env = call(t, app, http.MethodPatch, "/api/cafes/"+cafe.ID, map[string]any{"rating": 4.5}, "")
	require.Equal(t, fiber.StatusOK, status)
	patched := decode[models.Cafe](t, env)
	assert.Equal(t, 4.5, patched.Rating)
	assert.Equal(t, "Jakarta", patched.Location)

	status, env = call(t, app, http.MethodPut, "/api/cafes/"+cafe.ID, map[string]any{"name": "Kopi Sore", "location": "Bogor"}, "")
	require.Equal(t, fiber.StatusOK, status)
	replaced := decode[models.Cafe](t, env)
	assert.Equal(t, "Kopi Sore", replaced.Name)
	assert.Zero(t, replaced.Rating)

	status, env = call(t, app, http.MethodDelete, "/api/cafes/"+cafe.ID, nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Cafe deleted successfully", env.Message)

	status, env = call(t, app, http.MethodGet, "/api/cafes/"+cafe.ID, nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestCafeEndpoints_Validation(t *testing.T) {
	app, s := setupApp(t, false)

	status, env := call(t, app, http.MethodPost, "/api/cafes", map[string]any{"name": "No location", "rating": 7}, "")
	require.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Could not create cafe", env.Error)
	assert.Contains(t, env.Errors, "location")
	assert.Contains(t, env.Errors, "rating")

	n, err := s.Cafes().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCafeEndpoints_PatchMissing(t *testing.T) {
	app, s := setupApp(t, false)

	status, env := call(t, app, http.MethodPatch, "/api/cafes/does-not-exist", map[string]any{"name": "Ghost"}, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "not found")

	n, err := s.Cafes().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "store unchanged")
}

func TestAPIInfoHealthAndUnknownRoutes(t *testing.T) {
	app, _ := setupApp(t, false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api", nil), -1)
	require.NoError(t, err)
	var info struct {
		Message   string            `json:"message"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "CafeConnect API", info.Message)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "/api/cafes", info.Endpoints["cafes"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, env := call(t, app, http.MethodGet, "/api/nothing-here", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t, false)

	status, env := call(t, app, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "John Doe", "email": "john@example.com", "password": "user123", "role": "admin",
	}, "")
	require.Equal(t, fiber.StatusCreated, status)
	assert.NotContains(t, string(env.Data), "password")
	user := decode[models.User](t, env)
	assert.Equal(t, models.RoleCustomer, user.Role, "self-registration cannot choose a role")

	status, _ = call(t, app, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "John Again", "email": "JOHN@example.com", "password": "user123",
	}, "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, env = call(t, app, http.MethodPost, "/api/auth/login", map[string]any{"email": "john@example.com", "password": "user123"}, "")
	require.Equal(t, fiber.StatusOK, status)
	login := decode[struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}](t, env)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.User.ID)

	status, env = call(t, app, http.MethodPost, "/api/auth/login", map[string]any{"email": "john@example.com", "password": "wrong"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Authentication failed", env.Error)

	status, _ = call(t, app, http.MethodPost, "/api/auth/login", map[string]any{"email": "john@example.com"}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAuthEnforced(t *testing.T) {
	app, s := setupApp(t, true)
	ctx := context.Background()

	users := services.NewUserService(s.Users())
	admin, err := users.InsertUser(ctx, &models.User{Name: "Admin", Email: "admin@cafeconnect.com", Password: "admin123", Role: models.RoleAdmin, IsActive: true})
	require.NoError(t, err)
	customer, err := users.InsertUser(ctx, &models.User{Name: "Jane", Email: "jane@example.com", Password: "user123", Role: models.RoleCustomer, IsActive: true})
	require.NoError(t, err)

	auth := services.NewAuthService(s.Users(), testJWTSecret, time.Hour)
	adminToken, err := auth.IssueToken(admin)
	require.NoError(t, err)
	customerToken, err := auth.IssueToken(customer)
	require.NoError(t, err)

	newCafe := map[string]any{"name": "Kopi Pagi", "location": "Jakarta"}

	status, _ := call(t, app, http.MethodPost, "/api/cafes", newCafe, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = call(t, app, http.MethodPost, "/api/cafes", newCafe, customerToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = call(t, app, http.MethodPost, "/api/cafes", newCafe, adminToken)
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = call(t, app, http.MethodGet, "/api/cafes", nil, "")
	assert.Equal(t, fiber.StatusOK, status, "catalog reads stay public")
	status, _ = call(t, app, http.MethodGet, "/api/menus", nil, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, http.MethodGet, "/api/users", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = call(t, app, http.MethodGet, "/api/reports/dashboard", nil, customerToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = call(t, app, http.MethodGet, "/api/reports/dashboard", nil, adminToken)
	assert.Equal(t, fiber.StatusOK, status)

	status, env := call(t, app, http.MethodGet, "/api/users", nil, adminToken)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2, *env.Count)
	assert.NotContains(t, string(env.Data), "password")
}

func createFixtures(t *testing.T, app *fiber.App) (cafeID, userID string, menus map[string]string) {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/api/cafes", map[string]any{"name": "Kopi Pagi", "location": "Jakarta"}, "")
	require.Equal(t, fiber.StatusCreated, status)
	cafeID = decode[models.Cafe](t, env).ID

	status, env = call(t, app, http.MethodPost, "/api/users", map[string]any{
		"name": "Cashier", "email": "cashier@cafeconnect.com", "password": "cashier1", "role": "owner",
	}, "")
	require.Equal(t, fiber.StatusCreated, status)
	userID = decode[models.User](t, env).ID

	menus = map[string]string{}
	for name, price := range map[string]float64{"Espresso": 25000, "Americano": 27000} {
		status, env = call(t, app, http.MethodPost, "/api/menus", map[string]any{
			"name": name, "description": name + " coffee", "price": price,
		}, "")
		require.Equal(t, fiber.StatusCreated, status)
		menus[name] = decode[models.Menu](t, env).ID
	}
	return cafeID, userID, menus
}

func TestCashierCheckoutFlow(t *testing.T) {
	app, _ := setupApp(t, false)
	cafeID, userID, menus := createFixtures(t, app)

	status, env := call(t, app, http.MethodGet, "/api/cashier/products?category=coffee", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2, *env.Count)

	status, env = call(t, app, http.MethodPost, "/api/cashier/carts", nil, "")
	require.Equal(t, fiber.StatusCreated, status)
	cartID := decode[services.CartView](t, env).ID

	// empty carts cannot be checked out
	status, env = call(t, app, http.MethodPost, "/api/cashier/carts/"+cartID+"/checkout", map[string]any{"cafeId": cafeID, "userId": userID}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Message, "empty")

	for _, name := range []string{"Espresso", "Americano", "Espresso"} {
		status, _ = call(t, app, http.MethodPost, "/api/cashier/carts/"+cartID+"/items", map[string]any{"menuId": menus[name]}, "")
		require.Equal(t, fiber.StatusOK, status)
	}

	status, env = call(t, app, http.MethodGet, "/api/cashier/carts/"+cartID, nil, "")
	require.Equal(t, fiber.StatusOK, status)
	view := decode[services.CartView](t, env)
	assert.Equal(t, cart.Totals{Subtotal: 77000, Tax: 7700, Total: 84700}, view.Totals)
	assert.Equal(t, "Rp 84.700", view.FormattedTotal)

	status, _ = call(t, app, http.MethodPut, "/api/cashier/carts/"+cartID+"/items/unknown", map[string]any{"quantity": 2}, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	// a body without quantity must not drop the line
	status, env = call(t, app, http.MethodPut, "/api/cashier/carts/"+cartID+"/items/"+menus["Espresso"], map[string]any{}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "quantity")
	status, env = call(t, app, http.MethodGet, "/api/cashier/carts/"+cartID, nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 84700.0, decode[services.CartView](t, env).Totals.Total)

	status, env = call(t, app, http.MethodPost, "/api/cashier/carts/"+cartID+"/checkout", map[string]any{
		"cafeId": cafeID, "userId": userID, "customerName": "Budi", "paymentMethod": "card",
	}, "")
	require.Equal(t, fiber.StatusCreated, status)
	result := decode[services.CheckoutResult](t, env)
	assert.Equal(t, "Budi", result.Receipt.Customer)
	assert.Equal(t, 84700.0, result.Receipt.Total)
	assert.Equal(t, "Rp 84.700", result.FormattedTotal)
	assert.Equal(t, models.StatusConfirmed, result.Order.Status)
	assert.Equal(t, models.PaymentPaid, result.Order.PaymentStatus)
	assert.Equal(t, 77000.0, result.Order.Total)
	assert.Equal(t, 7700.0, result.Order.Tax)

	status, _ = call(t, app, http.MethodGet, "/api/cashier/carts/"+cartID, nil, "")
	assert.Equal(t, fiber.StatusNotFound, status, "cart session closed")

	status, env = call(t, app, http.MethodGet, "/api/orders?cafeId="+cafeID+"&status=confirmed", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, *env.Count)

	status, env = call(t, app, http.MethodGet, "/api/reports/sales?range=today", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	report := decode[services.SalesReport](t, env)
	assert.Equal(t, 1, report.OrderCount)
	assert.Equal(t, 84700.0, report.TotalSales)
}

func TestOrderEndpoints(t *testing.T) {
	app, _ := setupApp(t, false)
	cafeID, userID, _ := createFixtures(t, app)

	status, env := call(t, app, http.MethodPost, "/api/orders", map[string]any{
		"cafeId": cafeID,
		"userId": userID,
		"total":  1,
		"items":  []map[string]any{{"name": "Espresso", "quantity": 2, "price": 25000}},
	}, "")
	require.Equal(t, fiber.StatusCreated, status)
	order := decode[models.Order](t, env)
	assert.Equal(t, 50000.0, order.Total)

	status, env = call(t, app, http.MethodPost, "/api/orders", map[string]any{
		"cafeId": "ghost",
		"userId": userID,
		"items":  []map[string]any{{"name": "Espresso", "quantity": 1, "price": 25000}},
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Message, "cafe ghost does not exist")

	status, env = call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]any{"status": "completed"}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, env.Message, "valid transitions from pending")

	status, env = call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]any{"status": "confirmed"}, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, models.StatusConfirmed, decode[models.Order](t, env).Status)

	status, env = call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/payment", map[string]any{"paymentStatus": "paid"}, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, models.PaymentPaid, decode[models.Order](t, env).PaymentStatus)

	status, _ = call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/status", map[string]any{}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = call(t, app, http.MethodGet, "/api/orders?userId="+userID, nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, *env.Count)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders/"+order.ID+"/qrcode", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	status, _ = call(t, app, http.MethodDelete, "/api/orders/"+order.ID, nil, "")
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, http.MethodGet, "/api/orders/"+order.ID+"/qrcode", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
