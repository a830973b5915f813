package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nordlayer/printing-platform/internal/cache"
	"github.com/nordlayer/printing-platform/internal/catalog"
	"github.com/nordlayer/printing-platform/internal/config"
	"github.com/nordlayer/printing-platform/internal/contact"
	"github.com/nordlayer/printing-platform/internal/content"
	"github.com/nordlayer/printing-platform/internal/database"
	"github.com/nordlayer/printing-platform/internal/identities"
	"github.com/nordlayer/printing-platform/internal/notification"
	"github.com/nordlayer/printing-platform/internal/orders"
	"github.com/nordlayer/printing-platform/internal/reviews"
	"github.com/nordlayer/printing-platform/internal/storage"
	"github.com/nordlayer/printing-platform/pkg/models"
)

const testSecret = "test-secret"

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	admin  *models.User
	svc    *models.Service
}

func setupServerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	uploadDir := t.TempDir()
	cfg := &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{Secret: testSecret, ExpireMinutes: 30},
		Upload:      config.UploadConfig{Dir: uploadDir},
	}

	logger := zap.NewNop()
	c := cache.New(nil, logger)

	identitySvc, err := identities.NewService(logger, db, cfg.JWT.Secret, cfg.JWT.ExpireMinutes)
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(logger, db, c)
	require.NoError(t, err)
	contentSvc, err := content.NewService(logger, db, c)
	require.NoError(t, err)

	notifier := notification.NewService(logger, config.NotifyConfig{})
	orderSvc, err := orders.NewService(logger, db, notifier)
	require.NoError(t, err)
	reviewSvc, err := reviews.NewService(logger, db)
	require.NoError(t, err)
	contactSvc, err := contact.NewService(logger, db, notifier)
	require.NoError(t, err)

	backend, err := storage.NewLocalBackend(uploadDir)
	require.NoError(t, err)
	files := storage.NewService(logger, backend, 0, 0)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &models.User{
		ID:           uuid.New(),
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      true,
	}
	require.NoError(t, db.Select("*").Create(admin).Error)

	printing := &models.Service{ID: uuid.New(), Name: "FDM Printing", IsActive: true}
	require.NoError(t, db.Create(printing).Error)

	srv := NewServer(logger, cfg, db, identitySvc, catalogSvc, contentSvc,
		orderSvc, reviewSvc, contactSvc, files, c)

	return &testEnv{router: srv.Router(), db: db, admin: admin, svc: printing}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func TestHealthEndpoints(t *testing.T) {
	env := setupServerTest(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The database is up but the cache is not configured.
	w = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestDocsEndpoints(t *testing.T) {
	env := setupServerTest(t)

	w := env.do(t, http.MethodGet, "/docs/index.html", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/docs/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Printing Platform API")

	w = env.do(t, http.MethodGet, "/redoc", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/docs/doc.json")
}

func TestAuthFlow(t *testing.T) {
	env := setupServerTest(t)

	t.Run("json login", func(t *testing.T) {
		token := env.adminToken(t)

		w := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin@example.com")
	})

	t.Run("form login", func(t *testing.T) {
		form := strings.NewReader("username=admin@example.com&password=password123")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login/token", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"token_type":"bearer"`)
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"email":    "admin@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
	})
}

func TestAuthMiddleware(t *testing.T) {
	env := setupServerTest(t)

	t.Run("missing token is 401", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/orders", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/orders", "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin token is 403", func(t *testing.T) {
		now := time.Now()
		claims := identities.Claims{
			IsAdmin: false,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.New().String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		w := env.do(t, http.MethodGet, "/api/v1/orders", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestOrderEndpoints(t *testing.T) {
	env := setupServerTest(t)
	token := env.adminToken(t)

	var orderID string

	t.Run("public order creation", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/orders", "", gin.H{
			"customer_name":  "Bob",
			"customer_email": "bob@example.com",
			"service_id":     env.svc.ID.String(),
			"source":         "web",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Data models.Order `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "new", resp.Data.Status)
		orderID = resp.Data.ID.String()
	})

	t.Run("unknown service is 400", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/orders", "", gin.H{
			"customer_name":  "Bob",
			"customer_email": "bob@example.com",
			"service_id":     uuid.New().String(),
			"source":         "web",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("public search by email", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/orders/search?email=bob@example.com", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), orderID)
	})

	t.Run("admin listing is paginated", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/orders", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.EqualValues(t, 1, resp.Pagination.Total)
	})

	t.Run("status webhook", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/orders/webhook/status-change", "", gin.H{
			"order_id": orderID,
			"status":   "confirmed",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
	})

	t.Run("webhook rejects unknown status", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/orders/webhook/status-change", "", gin.H{
			"order_id": orderID,
			"status":   "shipped",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("file upload attaches to the order", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("files", "bracket.stl")
		require.NoError(t, err)
		_, err = part.Write([]byte("solid bracket\nendsolid bracket\n"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/v1/files/upload-order-files/%s", orderID), &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "bracket.stl")

		var count int64
		require.NoError(t, env.db.Model(&models.OrderFile{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("upload with disallowed extension stores nothing", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("files", "malware.exe")
		require.NoError(t, err)
		_, err = part.Write([]byte("MZ"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost,
			fmt.Sprintf("/api/v1/files/upload-order-files/%s", orderID), &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var count int64
		require.NoError(t, env.db.Model(&models.OrderFile{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestReviewEndpoints(t *testing.T) {
	env := setupServerTest(t)
	token := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/v1/reviews", "", gin.H{
		"customer_name":  "Bob",
		"customer_email": "bob@example.com",
		"rating":         5,
		"content":        "Flawless print quality.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data models.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	reviewID := created.Data.ID.String()

	t.Run("unapproved review hidden from public routes", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/reviews", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.PaginatedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Zero(t, resp.Pagination.Total)

		w = env.do(t, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("approval makes it public", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/v1/reviews/admin/"+reviewID+"/approve", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("stats after approval", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/reviews/stats", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":1`)
	})
}

func TestPublicCatalogEndpoints(t *testing.T) {
	env := setupServerTest(t)

	t.Run("services list", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/services", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "FDM Printing")
	})

	t.Run("complexity levels", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/projects/complexity-levels", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "simple")
	})

	t.Run("color types", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/colors/types", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "metallic")
	})

	t.Run("missing project is a not_found envelope", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/projects/"+uuid.New().String(), "", nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "not_found", resp.Error.Type)
	})

	t.Run("invalid id is a 400", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/projects/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContentEndpoints(t *testing.T) {
	env := setupServerTest(t)
	token := env.adminToken(t)

	t.Run("upsert and read a public setting", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/content/settings", token, gin.H{
			"key":   "site_name",
			"value": "Printshop",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/api/v1/content/settings/public", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Printshop")
	})

	t.Run("update by path ignores the body key", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/v1/content/settings/site_name", token, gin.H{
			"value": "Printing Platform",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "Printing Platform")
	})

	t.Run("page lifecycle through cms routes", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/content/pages", token, gin.H{
			"slug":  "about",
			"title": "About us",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/api/v1/cms/pages/about", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "About us")

		w = env.do(t, http.MethodDelete, "/api/v1/content/pages/about", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/cms/pages/about", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("content fragments by keys", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/cms/content", token, gin.H{
			"key":        "home.hero.title",
			"content":    "Print anything",
			"group_name": "home",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/api/v1/cms/content/by-keys?keys=home.hero.title", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Print anything")
	})

	t.Run("admin content list shows inactive fragments", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/cms/content", token, gin.H{
			"key":        "home.hero.subtitle",
			"content":    "Retired tagline",
			"group_name": "home",
			"is_active":  false,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodGet, "/api/v1/cms/content/by-group/home", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Retired tagline")

		w = env.do(t, http.MethodGet, "/api/v1/cms/content?group=home", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Retired tagline")
	})
}

func TestArticleVisibility(t *testing.T) {
	env := setupServerTest(t)
	token := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/v1/articles", token, gin.H{
		"title":    "Unreleased printer review",
		"content":  "Still under embargo.",
		"category": "reviews",
		"slug":     "secret-draft",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("draft is 404 for the public", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/articles/secret-draft", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("public list never includes drafts", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/articles?published_only=false", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "secret-draft")
	})

	t.Run("admin can read and list drafts", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/articles/secret-draft", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/api/v1/articles?published_only=false", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "secret-draft")
	})
}

func TestContactEndpoints(t *testing.T) {
	env := setupServerTest(t)
	token := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/api/v1/contact", "", gin.H{
		"name":    "Bob",
		"email":   "bob@example.com",
		"subject": "Pricing",
		"message": "How much for 100 parts?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("admin stats", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/contact/admin/stats", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"new":1`)
	})

	t.Run("public cannot reach the admin group", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/contact/admin", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCacheEndpoints(t *testing.T) {
	env := setupServerTest(t)
	token := env.adminToken(t)

	w := env.do(t, http.MethodGet, "/api/v1/cache/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enabled":false`)
}
