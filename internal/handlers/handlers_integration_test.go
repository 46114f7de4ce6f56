package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

const testBaseURL = "http://storefront.test"

// captureMailer records the last message instead of sending it, so tests can
// pull the verification link out of the registration email.
type captureMailer struct {
	lastTo   string
	lastBody string
}

func (m *captureMailer) Send(to, subject, htmlBody string) error {
	m.lastTo = to
	m.lastBody = htmlBody
	return nil
}

type stubMedia struct{}

func (stubMedia) Upload(ctx context.Context, localPath string) (models.Image, error) {
	return models.Image{URL: "http://media.test/uploaded.png", PublicID: "uploaded"}, nil
}
func (stubMedia) Remove(ctx context.Context, publicID string) error        { return nil }
func (stubMedia) RemoveMany(ctx context.Context, publicIDs []string) error { return nil }

type testEnv struct {
	app  *fiber.App
	db   *gorm.DB
	mail *captureMailer
}

// setupApp wires handlers against an in-memory SQLite database.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.VerificationToken{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
	)
	assert.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	tokenRepo := repositories.NewGORMVerificationTokenRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	mail := &captureMailer{}
	logger := zerolog.Nop()

	authService := services.NewAuthService(userRepo, tokenRepo, mail, logger, "test_jwt_secret", testBaseURL)
	userService := services.NewUserService(userRepo, stubMedia{}, logger)
	categoryService := services.NewCategoryService(categoryRepo, stubMedia{}, logger)
	productService := services.NewProductService(productRepo, categoryRepo, stubMedia{}, logger)
	orderService := services.NewOrderService(orderRepo, productRepo, nil, logger)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewUserHandler(userService, authService).RegisterRoutes(apiV1)
	handlers.NewCategoryHandler(categoryService, authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService, authService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService, authService).RegisterRoutes(apiV1)

	return &testEnv{app: app, db: db, mail: mail}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

var verifyPathPattern = regexp.MustCompile(`/api/v1/auth/[^/]+/verify/[0-9a-f]+`)

func registerPayload(username, email string) map[string]interface{} {
	return map[string]interface{}{
		"username":  username,
		"email":     email,
		"password":  "Sup3rSecret",
		"street":    "1 Main Street",
		"apartment": "4B",
		"city":      "Springfield",
		"zip":       "12345",
		"country":   "USA",
		"phone":     "+1 555 000 1111",
	}
}

// registerAndLogin runs the full signup flow and returns the bearer token and
// user id.
func (e *testEnv) registerAndLogin(t *testing.T, username, email string, admin bool) (string, string) {
	t.Helper()

	resp, body := e.request(t, http.MethodPost, "/api/v1/auth/register", "", registerPayload(username, email))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "We sent you a verification email, check your inbox", body["message"])

	link := verifyPathPattern.FindString(e.mail.lastBody)
	assert.NotEmpty(t, link)
	resp, _ = e.request(t, http.MethodGet, link, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	if admin {
		err := e.db.Model(&models.User{}).Where("email = ?", email).Update("is_admin", true).Error
		assert.NoError(t, err)
	}

	resp, body = e.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "Sup3rSecret",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token, _ := body["token"].(string)
	userID, _ := body["_id"].(string)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, userID)
	return token, userID
}

func TestRegistrationFlow(t *testing.T) {
	env := setupApp(t)

	resp, body := env.request(t, http.MethodPost, "/api/v1/auth/register", "", registerPayload("shopper01", "shopper@example.com"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SUCCESS", body["status"])
	assert.Equal(t, "shopper@example.com", env.mail.lastTo)

	// Registering the same email again fails without touching the first user.
	resp, body = env.request(t, http.MethodPost, "/api/v1/auth/register", "", registerPayload("shopper02", "shopper@example.com"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "FAIL", body["status"])
	assert.Equal(t, "user already exists", body["message"])

	// The emailed link verifies once, then goes stale.
	link := verifyPathPattern.FindString(env.mail.lastBody)
	assert.NotEmpty(t, link)
	resp, _ = env.request(t, http.MethodGet, link, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.request(t, http.MethodGet, link, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "invalid link", body["message"])

	var user models.User
	assert.NoError(t, env.db.Where("email = ?", "shopper@example.com").First(&user).Error)
	assert.True(t, user.IsVerified)
	assert.Equal(t, "shopper01", user.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := setupApp(t)
	env.registerAndLogin(t, "shopper01", "shopper@example.com", false)

	// Wrong password and unknown email produce the same message.
	resp, body := env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "shopper@example.com",
		"password": "WrongPassw0rd",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email or password is not correct", body["message"])

	resp, body = env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "WrongPassw0rd",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email or password is not correct", body["message"])
}

func TestCatalogAdminFlow(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.registerAndLogin(t, "admin0001", "admin@example.com", true)
	userToken, _ := env.registerAndLogin(t, "shopper01", "shopper@example.com", false)

	// Mutations require an admin token.
	resp, body := env.request(t, http.MethodPost, "/api/v1/categories", userToken, map[string]interface{}{
		"title": "Electronics",
		"color": "#ff8800",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "this is only allowed for admins", body["message"])

	resp, body = env.request(t, http.MethodPost, "/api/v1/categories", adminToken, map[string]interface{}{
		"title": "Electronics",
		"color": "#ff8800",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	category := body["category"].(map[string]interface{})
	categoryID := category["id"].(string)
	assert.NotEmpty(t, categoryID)

	// A product referencing a missing category is rejected.
	resp, _ = env.request(t, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
		"title":       "Wireless Mouse",
		"description": "A mouse without a tail",
		"brand":       "Acme",
		"price":       24.99,
		"category":    "no-such-category",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.request(t, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
		"title":        "Wireless Mouse",
		"description":  "A mouse without a tail",
		"brand":        "Acme",
		"price":        24.99,
		"category":     categoryID,
		"countInStock": 10,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	product := body["product"].(map[string]interface{})
	assert.Equal(t, models.DefaultProductImageURL, product["image"].(map[string]interface{})["url"])

	// Reads are public.
	resp, body = env.request(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["products"], 1)

	resp, body = env.request(t, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["categories"], 1)
}

func TestOrderFlow(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.registerAndLogin(t, "admin0001", "admin@example.com", true)
	userToken, userID := env.registerAndLogin(t, "shopper01", "shopper@example.com", false)

	_, body := env.request(t, http.MethodPost, "/api/v1/categories", adminToken, map[string]interface{}{
		"title": "Electronics",
		"color": "#ff8800",
	})
	categoryID := body["category"].(map[string]interface{})["id"].(string)

	var productIDs []string
	for i, price := range []float64{10.00, 5.50} {
		resp, body := env.request(t, http.MethodPost, "/api/v1/products", adminToken, map[string]interface{}{
			"title":       fmt.Sprintf("Product %d", i+1),
			"description": "A product used in tests",
			"brand":       "Acme",
			"price":       price,
			"category":    categoryID,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		productIDs = append(productIDs, body["product"].(map[string]interface{})["id"].(string))
	}

	// Placing an order requires a token.
	orderPayload := map[string]interface{}{
		"orderItems": []map[string]interface{}{
			{"product": productIDs[0], "quantity": 2},
			{"product": productIDs[1], "quantity": 1},
		},
		"shippingAddress1": "1 Main Street",
		"city":             "Springfield",
		"zip":              "12345",
		"country":          "USA",
		"phone":            "+1 555 000 1111",
	}
	resp, _ := env.request(t, http.MethodPost, "/api/v1/orders", "", orderPayload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = env.request(t, http.MethodPost, "/api/v1/orders", userToken, orderPayload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, 25.50, order["totalPrice"])
	assert.Equal(t, "Pending", order["status"])
	assert.Equal(t, userID, order["user"])
	orderID := order["id"].(string)

	items := order["orderItems"].([]interface{})
	assert.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["quantity"])
	assert.Equal(t, "Product 1", first["productDetails"].(map[string]interface{})["title"])

	// Listing all orders is admin only.
	resp, _ = env.request(t, http.MethodGet, "/api/v1/orders", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.request(t, http.MethodGet, "/api/v1/orders", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["orders"], 1)

	resp, body = env.request(t, http.MethodGet, "/api/v1/orders/totalSales", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 25.50, body["totalSales"])

	// The owner can update the order status; another user cannot.
	strangerToken, _ := env.registerAndLogin(t, "stranger1", "stranger@example.com", false)
	resp, _ = env.request(t, http.MethodPut, "/api/v1/orders/"+orderID, strangerToken, map[string]interface{}{
		"status": "Shipped",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.request(t, http.MethodPut, "/api/v1/orders/"+orderID, userToken, map[string]interface{}{
		"status": "Shipped",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Shipped", body["updatedOrder"].(map[string]interface{})["status"])

	resp, body = env.request(t, http.MethodPut, "/api/v1/orders/"+orderID, userToken, map[string]interface{}{
		"status": "Teleported",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "invalid order status")

	// Admins may delete any order.
	resp, _ = env.request(t, http.MethodDelete, "/api/v1/orders/"+orderID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/v1/orders", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUserGuards(t *testing.T) {
	env := setupApp(t)
	adminToken, _ := env.registerAndLogin(t, "admin0001", "admin@example.com", true)
	aliceToken, aliceID := env.registerAndLogin(t, "alice0001", "alice@example.com", false)
	bobToken, _ := env.registerAndLogin(t, "bobby0001", "bob@example.com", false)

	// Listing users is admin only.
	resp, _ := env.request(t, http.MethodGet, "/api/v1/users", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.request(t, http.MethodGet, "/api/v1/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["users"], 3)

	// A profile is public, and never leaks the password hash.
	resp, body = env.request(t, http.MethodGet, "/api/v1/users/"+aliceID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice0001", user["username"])
	assert.NotContains(t, user, "password")

	// Only the user may edit their own profile; admins may not.
	resp, _ = env.request(t, http.MethodPut, "/api/v1/users/"+aliceID, bobToken, map[string]interface{}{
		"city": "Shelbyville",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPut, "/api/v1/users/"+aliceID, adminToken, map[string]interface{}{
		"city": "Shelbyville",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.request(t, http.MethodPut, "/api/v1/users/"+aliceID, aliceToken, map[string]interface{}{
		"city": "Shelbyville",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Shelbyville", body["user"].(map[string]interface{})["city"])

	// Deleting is allowed for the user or an admin, not for others.
	resp, _ = env.request(t, http.MethodDelete, "/api/v1/users/"+aliceID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/api/v1/users/"+aliceID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/v1/users/"+aliceID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
