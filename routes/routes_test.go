package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopez/auth"
	"shopez/controllers"
	"shopez/idempotency"
	"shopez/middleware"
	"shopez/repository/memory"
	"shopez/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	store  *memory.Store
	admin  string
	token  string
	userID string
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := memory.NewStore()
	logger := zap.NewNop()

	authSvc := services.NewAuthService(store.Users(), store.Blacklist(), auth.NewTokenManager("test-secret", time.Hour), logger)
	categorySvc := services.NewCategoryService(store.Categories(), store.Products(), store.Transactor(), logger)
	require.NoError(t, categorySvc.SeedDefaults(ctx))
	require.NoError(t, authSvc.SeedAdmin(ctx, "admin", "admin@shop.test", "admin123"))

	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Timeout(time.Second))
	RegisterRoutes(r, Handlers{
		Auth: controllers.NewAuthController(authSvc),
		Cart: controllers.NewCartController(services.NewCartService(store.Carts(), store.Products(), logger)),
		Orders: controllers.NewOrderController(
			services.NewCheckoutService(store.Carts(), store.Orders(), store.Products(), store.Transactor(), idempotency.NewMemoryStore(time.Hour), logger),
			services.NewOrderService(store.Orders(), logger),
		),
		Products:   controllers.NewProductController(services.NewProductService(store.Products(), store.Categories(), logger)),
		Categories: controllers.NewCategoryController(categorySvc),
		Admin:      controllers.NewAdminController(services.NewAdminService(store.Users(), store.Products(), store.Orders(), store.Settings(), logger)),
		Health:     controllers.NewHealthController(nil),
	}, authSvc)

	s := &testServer{t: t, engine: r, store: store}
	s.admin = s.login("admin@shop.test", "admin123")

	env := s.do(http.MethodPost, "/register", "", map[string]any{"username": "asha", "email": "asha@example.com", "password": "secret1"}, http.StatusCreated)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	s.userID = user.ID
	s.token = s.login("asha@example.com", "secret1")
	return s
}

func (s *testServer) login(email, password string) string {
	env := s.do(http.MethodPost, "/login", "", map[string]any{"email": email, "password": password}, http.StatusOK)
	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &sess))
	return sess.Token
}

func (s *testServer) request(method, path, token string, body any, header ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(method, path, token string, body any, want int, header ...string) envelope {
	s.t.Helper()
	w := s.request(method, path, token, body, header...)
	require.Equal(s.t, want, w.Code, w.Body.String())
	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func delivery() map[string]any {
	return map[string]any{
		"name":          "Asha Rao",
		"email":         "asha@example.com",
		"mobile":        "9876543210",
		"address":       "12 MG Road",
		"pincode":       "560001",
		"paymentMethod": "cod",
	}
}

func TestCartToOrderFlow(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/add-to-cart", s.token, map[string]any{"title": "Shirt", "size": "M", "quantity": 1, "price": 20, "discount": 10}, http.StatusOK)
	s.do(http.MethodPost, "/add-to-cart", s.token, map[string]any{"title": "Shoes", "size": "9", "quantity": 1, "price": 50}, http.StatusOK)

	env := s.do(http.MethodGet, "/cart-summary/"+s.userID, s.token, nil, http.StatusOK)
	var sum services.CartSummary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, "68.00", sum.Total)

	env = s.do(http.MethodPost, "/place-cart-order", s.token, delivery(), http.StatusOK)
	assert.True(t, env.Success)
	var orders []services.OrderView
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 2)
	prices := map[string]string{}
	for _, o := range orders {
		prices[o.Title] = o.EffectivePrice
	}
	assert.Equal(t, map[string]string{"Shirt": "18.00", "Shoes": "50.00"}, prices)

	env = s.do(http.MethodGet, "/fetch-cart/"+s.userID, s.token, nil, http.StatusOK)
	assert.JSONEq(t, `[]`, string(env.Data))

	env = s.do(http.MethodPost, "/place-cart-order", s.token, delivery(), http.StatusBadRequest)
	assert.Equal(t, "Cart is empty", env.Message)
}

func TestValidationErrorsListFields(t *testing.T) {
	s := newTestServer(t)

	body := delivery()
	body["mobile"] = "12345"
	body["title"] = "Watch"
	body["price"] = 100
	env := s.do(http.MethodPost, "/buy-product", s.token, body, http.StatusBadRequest)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "mobile")

	s.do(http.MethodPut, "/increase-cart-quantity", s.token, map[string]any{"id": "not-hex"}, http.StatusBadRequest)
	s.do(http.MethodPost, "/add-to-cart", s.token, "not an object", http.StatusBadRequest)

	env = s.do(http.MethodGet, "/fetch-products?sort=bogus&limit=-1", "", nil, http.StatusBadRequest)
	assert.Contains(t, env.Errors, "sort")
	assert.Contains(t, env.Errors, "limit")
}

func TestIdempotentBuyProduct(t *testing.T) {
	s := newTestServer(t)
	body := delivery()
	body["title"] = "Watch"
	body["price"] = 100

	first := s.do(http.MethodPost, "/buy-product", s.token, body, http.StatusOK, controllers.IdempotencyHeader, "abc")
	second := s.do(http.MethodPost, "/buy-product", s.token, body, http.StatusOK, controllers.IdempotencyHeader, "abc")
	assert.JSONEq(t, string(first.Data), string(second.Data))

	env := s.do(http.MethodGet, "/fetch-orders/"+s.userID, s.token, nil, http.StatusOK)
	var orders []services.OrderView
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Len(t, orders, 1)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	body := delivery()
	body["title"] = "Watch"
	body["price"] = 100
	env := s.do(http.MethodPost, "/buy-product", s.token, body, http.StatusOK)
	var order services.OrderView
	require.NoError(t, json.Unmarshal(env.Data, &order))
	id := order.ID.Hex()

	s.do(http.MethodPut, "/update-order-status/"+id, s.token, map[string]any{"status": "processing"}, http.StatusForbidden)
	s.do(http.MethodPut, "/update-order-status/"+id, s.admin, map[string]any{"status": "processing"}, http.StatusOK)
	s.do(http.MethodPut, "/update-order-status/"+id, s.admin, map[string]any{"status": "order placed"}, http.StatusBadRequest)

	env = s.do(http.MethodPut, "/update-order-status/"+id, s.admin, map[string]any{"status": "delivered"}, http.StatusOK)
	require.NoError(t, json.Unmarshal(env.Data, &order))
	require.NotNil(t, order.DeliveryDate)

	env = s.do(http.MethodPut, "/cancel-order/"+id, s.token, nil, http.StatusBadRequest)
	assert.Equal(t, "order is already delivered", env.Message)

	s.do(http.MethodGet, "/fetch-order/"+id, s.token, nil, http.StatusOK)
	s.do(http.MethodGet, "/fetch-all-orders", s.admin, nil, http.StatusOK)
	s.do(http.MethodGet, "/fetch-all-orders", s.token, nil, http.StatusForbidden)
}

func TestOwnershipAndAuth(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodGet, "/fetch-cart/"+s.userID, "", nil, http.StatusUnauthorized)
	s.do(http.MethodGet, "/fetch-cart/someone-else", s.token, nil, http.StatusForbidden)
	s.do(http.MethodGet, "/fetch-orders/someone-else", s.token, nil, http.StatusForbidden)
	s.do(http.MethodGet, "/fetch-orders/"+s.userID, s.admin, nil, http.StatusOK)
	s.do(http.MethodPost, "/add-to-cart", s.token, map[string]any{"userId": "someone-else", "title": "Cap", "price": 5}, http.StatusForbidden)

	s.do(http.MethodPost, "/logout", s.token, nil, http.StatusOK)
	s.do(http.MethodGet, "/fetch-cart/"+s.userID, s.token, nil, http.StatusUnauthorized)
}

func TestCatalogAdmin(t *testing.T) {
	s := newTestServer(t)
	product := map[string]any{
		"title": "Air Runner", "description": "running shoe", "mainImg": "r.png",
		"category": "shoes", "price": 80, "discount": 25, "brand": "Stride", "sizes": []string{"8", "9"},
	}

	s.do(http.MethodPost, "/add-new-product", s.token, product, http.StatusForbidden)
	env := s.do(http.MethodPost, "/add-new-product", s.admin, product, http.StatusCreated)
	var p services.ProductView
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "60.00", p.EffectivePrice)

	env = s.do(http.MethodGet, "/search-products?q=stride", "", nil, http.StatusOK)
	var found []services.ProductView
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Len(t, found, 1)

	s.do(http.MethodGet, "/fetch-products?category=shoes&sort=price_low&minPrice=10", "", nil, http.StatusOK)
	s.do(http.MethodGet, "/fetch-products?sort=sideways", "", nil, http.StatusBadRequest)
	s.do(http.MethodGet, "/fetch-product-details/"+p.ID.Hex(), "", nil, http.StatusOK)

	s.do(http.MethodPost, "/add-to-cart", s.token, map[string]any{"productId": p.ID.Hex(), "size": "9"}, http.StatusOK)
	env = s.do(http.MethodGet, "/fetch-cart/"+s.userID, s.token, nil, http.StatusOK)
	var lines []services.CartLine
	require.NoError(t, json.Unmarshal(env.Data, &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "Air Runner", lines[0].Title)

	product["category"] = "spaceships"
	env = s.do(http.MethodPut, "/update-product/"+p.ID.Hex(), s.admin, product, http.StatusBadRequest)
	assert.Contains(t, env.Errors, "category")

	s.do(http.MethodPost, "/add-category", s.admin, map[string]any{"name": "Shoes"}, http.StatusConflict)
	s.do(http.MethodDelete, "/delete-product/"+p.ID.Hex(), s.admin, nil, http.StatusOK)
	s.do(http.MethodGet, "/fetch-product-details/"+p.ID.Hex(), "", nil, http.StatusNotFound)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/update-banner", s.admin, map[string]any{"banner": "https://cdn.test/b.png"}, http.StatusOK)
	env := s.do(http.MethodGet, "/fetch-banner", "", nil, http.StatusOK)
	assert.JSONEq(t, `"https://cdn.test/b.png"`, string(env.Data))

	env = s.do(http.MethodGet, "/admin-stats", s.admin, nil, http.StatusOK)
	assert.JSONEq(t, `{"users":1,"products":0,"orders":0}`, string(env.Data))

	env = s.do(http.MethodGet, "/fetch-categories", "", nil, http.StatusOK)
	var cats []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &cats))
	assert.Len(t, cats, len(services.DefaultCategories))

	s.do(http.MethodGet, "/fetch-users", s.token, nil, http.StatusForbidden)
	s.do(http.MethodGet, "/health", "", nil, http.StatusOK)
}
