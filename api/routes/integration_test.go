package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/api/middleware"
	authsvc "github.com/buynowhq/buynow-backend/internal/auth"
	"github.com/buynowhq/buynow-backend/internal/orders"
	"github.com/buynowhq/buynow-backend/internal/products"
	"github.com/buynowhq/buynow-backend/internal/users"
	"github.com/buynowhq/buynow-backend/pkg/config"
)

func setupStoreDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  avatar_public_id TEXT,
  avatar_url TEXT,
  reset_password_token TEXT,
  reset_password_expire DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price NUMERIC NOT NULL,
  category TEXT NOT NULL,
  seller TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 1,
  ratings REAL NOT NULL DEFAULT 0,
  num_of_reviews INTEGER NOT NULL DEFAULT 0,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  public_id TEXT NOT NULL,
  url TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  shipping_city TEXT NOT NULL,
  shipping_state TEXT NOT NULL,
  shipping_country TEXT NOT NULL,
  shipping_pin_code TEXT NOT NULL,
  shipping_phone TEXT NOT NULL,
  payment_id TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  paid_at DATETIME NOT NULL,
  items_price NUMERIC NOT NULL,
  tax_price NUMERIC NOT NULL,
  shipping_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'Processing',
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  image_url TEXT,
  created_at DATETIME
);`}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

type noopUploader struct{}

func (noopUploader) Upload(_ context.Context, folder, filename, _ string, _ io.Reader) (string, string, error) {
	publicID := folder + "/" + filename
	return publicID, "https://assets.test/" + publicID, nil
}

func (noopUploader) Delete(context.Context, string) error { return nil }

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string, string) error { return nil }

func newStoreRouter(t *testing.T, db *gorm.DB) http.Handler {
	t.Helper()

	cfg := testRouterConfig()
	passwordCfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	usersRepo := users.NewRepository(db)
	usersService, err := users.NewService(users.ServiceParams{Repo: usersRepo, Uploader: noopUploader{}})
	require.NoError(t, err)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       usersRepo,
		Uploader:       noopUploader{},
		Mailer:         noopMailer{},
		PasswordConfig: passwordCfg,
		JWTConfig:      cfg.JWT,
		FrontendOrigin: cfg.App.FrontendOrigin,
	})
	require.NoError(t, err)

	productsService, err := products.NewService(products.ServiceParams{
		Repo:     products.NewRepository(db),
		Uploader: noopUploader{},
	})
	require.NoError(t, err)

	ordersService, err := orders.NewService(orders.ServiceParams{Repo: orders.NewRepository(db)})
	require.NoError(t, err)

	return NewRouter(
		cfg,
		nil,
		nil,
		nil,
		nil,
		nil,
		usersService,
		authService,
		productsService,
		ordersService,
		routerCheckoutService{},
	)
}

func doJSON(t *testing.T, router http.Handler, method, target, body string, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(session)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func sessionFromResponse(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

// Walks the whole purchase flow against real services over sqlite: sign up,
// list a product with stock 10, order 3 units, mark the order delivered and
// confirm the remaining stock is 7.
func TestStorePurchaseFlowDecrementsStockOnDelivery(t *testing.T) {
	db := setupStoreDB(t)
	router := newStoreRouter(t, db)
	email := uuid.NewString() + "@example.com"

	resp := doJSON(t, router, http.MethodPost, "/api/v1/register",
		`{"name":"Ada Lovelace","email":"`+email+`","password":"hunter22!"}`, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	session := sessionFromResponse(t, resp)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/product/new",
		`{"name":"Burr Grinder","description":"Conical burr coffee grinder","price":"59.99","category":"Kitchen","seller":"Buynow","stock":10}`,
		session)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var productEnvelope struct {
		Data products.ProductDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &productEnvelope))
	productID := productEnvelope.Data.ID
	require.Equal(t, 10, productEnvelope.Data.Stock)

	orderBody := `{
		"shipping_info": {"address":"1 Analytical Way","city":"London","state":"LDN","country":"UK","pin_code":"E1 6AN","phone":"02079460000"},
		"order_items": [{"product_id":"` + productID.String() + `","name":"Burr Grinder","price":"59.99","quantity":3}],
		"payment_info": {"id":"pay_123","status":"succeeded"},
		"items_price": "179.97",
		"tax_price": "0",
		"shipping_price": "0",
		"total_price": "179.97"
	}`
	resp = doJSON(t, router, http.MethodPost, "/api/v1/order/new", orderBody, session)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var orderEnvelope struct {
		Data orders.OrderDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &orderEnvelope))
	orderID := orderEnvelope.Data.ID
	require.Equal(t, "Processing", string(orderEnvelope.Data.Status))

	// Fulfillment needs an admin. Roles load from the database on every
	// request, so promoting the account takes effect immediately.
	require.NoError(t, db.Exec(`UPDATE users SET role = 'admin' WHERE email = ?`, email).Error)

	resp = doJSON(t, router, http.MethodPut, "/api/v1/admin/order/"+orderID.String(),
		`{"status":"Delivered"}`, session)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &orderEnvelope))
	require.Equal(t, "Delivered", string(orderEnvelope.Data.Status))

	resp = doJSON(t, router, http.MethodGet, "/api/v1/product/"+productID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &productEnvelope))
	require.Equal(t, 7, productEnvelope.Data.Stock)
}
