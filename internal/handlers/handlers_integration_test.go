package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/handlers"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/middleware"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/models"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/repositories"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds a full Fiber app over an isolated in-memory SQLite
// database, wired exactly the way main wires the PostgreSQL mode.
func setupApp(t *testing.T) (*fiber.App, repositories.ProductRepository) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	txManager := repositories.NewGormTxManager(db, 0)

	authService := services.NewAuthService(userRepo, jwtSecret)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, txManager, nil) // nil publisher

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)

	return app, productRepo
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	var parsed map[string]interface{}
	if len(raw) > 0 {
		assert.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp.StatusCode, parsed
}

// registerAndLogin creates a user with the given role and returns a JWT.
func registerAndLogin(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
		"role":     role,
	})
	assert.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	object := body["object"].(map[string]interface{})
	token, _ := object["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

// createProduct creates a product as admin and returns its public id.
func createProduct(t *testing.T, app *fiber.App, adminToken, name string, priceVal float64, stock int) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
		"name":        name,
		"description": "integration test product",
		"price":       priceVal,
		"stock":       stock,
		"category":    "tools",
	})
	assert.Equal(t, http.StatusCreated, status, "body: %v", body)
	object := body["object"].(map[string]interface{})
	id, _ := object["id"].(string)
	assert.NotEmpty(t, id)
	return id
}

func getProductStock(t *testing.T, app *fiber.App, token, productID string) int {
	t.Helper()
	status, body := doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	object := body["object"].(map[string]interface{})
	return int(object["stock"].(float64))
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["errors"], "errors must be null on success")

	// Duplicate username conflicts.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])
	assert.NotNil(t, body["errors"])

	// Login works; wrong password is rejected.
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser", "password": "password123",
	})
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProductWritesRequireAdmin(t *testing.T) {
	app, _ := setupApp(t)
	customerToken := registerAndLogin(t, app, "shopper", "customer")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/products", customerToken, map[string]interface{}{
		"name": "Nope", "price": 1.0, "stock": 1, "category": "tools",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// Unauthenticated requests are rejected outright.
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPlaceOrder_SuccessDecrementsStock(t *testing.T) {
	app, _ := setupApp(t)
	adminToken := registerAndLogin(t, app, "admin1", "admin")
	userToken := registerAndLogin(t, app, "buyer1", "customer")
	productID := createProduct(t, app, adminToken, "Widget", 10.00, 5)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"products": []map[string]interface{}{{"productId": productID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusCreated, status, "body: %v", body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order placed successfully", body["message"])
	assert.Nil(t, body["errors"])

	object := body["object"].(map[string]interface{})
	assert.NotEmpty(t, object["order_id"])
	assert.Equal(t, "pending", object["status"])
	assert.InDelta(t, 20.00, object["total_price"].(float64), 0.001)
	assert.NotEmpty(t, object["created_at"])

	items := object["products"].([]interface{})
	assert.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, productID, item["productId"])
	assert.Equal(t, "Widget", item["name"])
	assert.InDelta(t, 10.00, item["price"].(float64), 0.001)
	assert.InDelta(t, 2, item["quantity"].(float64), 0.001)
	assert.InDelta(t, 20.00, item["itemTotal"].(float64), 0.001)

	assert.Equal(t, 3, getProductStock(t, app, userToken, productID))
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	app, _ := setupApp(t)
	adminToken := registerAndLogin(t, app, "admin2", "admin")
	userToken := registerAndLogin(t, app, "buyer2", "customer")
	productID := createProduct(t, app, adminToken, "Scarce", 10.00, 1)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"products": []map[string]interface{}{{"productId": productID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotNil(t, body["errors"])

	assert.Equal(t, 1, getProductStock(t, app, userToken, productID))
}

func TestPlaceOrder_ProductNotFound(t *testing.T) {
	app, _ := setupApp(t)
	userToken := registerAndLogin(t, app, "buyer3", "customer")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"products": []map[string]interface{}{{"productId": "zzz", "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].([]interface{})
	assert.Contains(t, errs[0].(string), "zzz")
}

func TestPlaceOrder_EmptyProductListRejected(t *testing.T) {
	app, _ := setupApp(t)
	userToken := registerAndLogin(t, app, "buyer4", "customer")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"products": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotNil(t, body["errors"])
}

func TestPlaceOrder_DuplicateItemsCompound(t *testing.T) {
	app, _ := setupApp(t)
	adminToken := registerAndLogin(t, app, "admin5", "admin")
	userToken := registerAndLogin(t, app, "buyer5", "customer")
	productID := createProduct(t, app, adminToken, "Widget", 10.00, 5)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"products": []map[string]interface{}{
			{"productId": productID, "quantity": 2},
			{"productId": productID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusCreated, status, "body: %v", body)
	object := body["object"].(map[string]interface{})
	assert.InDelta(t, 40.00, object["total_price"].(float64), 0.001, "4 units billed")
	assert.Equal(t, 1, getProductStock(t, app, userToken, productID))
}

func TestPlaceOrder_DuplicateOverCommitRollsBack(t *testing.T) {
	// Stock 3, duplicate entries of quantity 2 each: per-item validation
	// passes but the second conditional decrement fails, and the whole
	// transaction (including the first decrement) rolls back.
	app, _ := setupApp(t)
	adminToken := registerAndLogin(t, app, "admin6", "admin")
	userToken := registerAndLogin(t, app, "buyer6", "customer")
	productID := createProduct(t, app, adminToken, "Widget", 10.00, 3)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"products": []map[string]interface{}{
			{"productId": productID, "quantity": 2},
			{"productId": productID, "quantity": 2},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	// Stock untouched and no order persisted.
	assert.Equal(t, 3, getProductStock(t, app, userToken, productID))
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/orders", userToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["object"].([]interface{}))
}

func TestPlaceOrder_ClientPriceIgnored(t *testing.T) {
	// A tampering client sending price fields changes nothing: the server
	// prices from its own store.
	app, _ := setupApp(t)
	adminToken := registerAndLogin(t, app, "admin7", "admin")
	userToken := registerAndLogin(t, app, "buyer7", "customer")
	productID := createProduct(t, app, adminToken, "Widget", 10.00, 5)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"total_price": 0.01,
		"products": []map[string]interface{}{
			{"productId": productID, "quantity": 2, "price": 0.01},
		},
	})
	assert.Equal(t, http.StatusCreated, status)
	object := body["object"].(map[string]interface{})
	assert.InDelta(t, 20.00, object["total_price"].(float64), 0.001)
}

func TestListOrders(t *testing.T) {
	app, _ := setupApp(t)
	adminToken := registerAndLogin(t, app, "admin8", "admin")
	userToken := registerAndLogin(t, app, "buyer8", "customer")

	// Zero orders: 200 with an empty list, not an error.
	status, body := doJSON(t, app, http.MethodGet, "/api/v1/orders", userToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["message"], "No orders")
	assert.NotNil(t, body["object"], "object must be an empty list, not null")
	assert.Empty(t, body["object"].([]interface{}))
	assert.Nil(t, body["errors"])

	productID := createProduct(t, app, adminToken, "Widget", 10.00, 10)
	for i := 0; i < 2; i++ {
		status, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
			"products": []map[string]interface{}{{"productId": productID, "quantity": 1}},
		})
		assert.Equal(t, http.StatusCreated, status)
	}

	status, first := doJSON(t, app, http.MethodGet, "/api/v1/orders", userToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, first["object"].([]interface{}), 2)

	// Idempotent read: same response with no intervening writes.
	status, second := doJSON(t, app, http.MethodGet, "/api/v1/orders", userToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, first["object"], second["object"])
}

func TestUpdateOrderStatusRequiresAdmin(t *testing.T) {
	app, _ := setupApp(t)
	adminToken := registerAndLogin(t, app, "admin9", "admin")
	userToken := registerAndLogin(t, app, "buyer9", "customer")
	productID := createProduct(t, app, adminToken, "Widget", 10.00, 5)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/orders", userToken, map[string]interface{}{
		"products": []map[string]interface{}{{"productId": productID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusCreated, status)
	orderID := body["object"].(map[string]interface{})["order_id"].(string)

	// Customers cannot move the lifecycle.
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", userToken, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusForbidden, status)

	// Admins can, but only to a known state.
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", adminToken, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/orders/"+orderID+"/status", adminToken, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, userToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "shipped", body["object"].(map[string]interface{})["status"])
}
