package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nordlayer/printing-platform/internal/cache"
	"github.com/nordlayer/printing-platform/internal/catalog"
	"github.com/nordlayer/printing-platform/internal/config"
	"github.com/nordlayer/printing-platform/internal/contact"
	"github.com/nordlayer/printing-platform/internal/content"
	"github.com/nordlayer/printing-platform/internal/identities"
	"github.com/nordlayer/printing-platform/internal/orders"
	"github.com/nordlayer/printing-platform/internal/reviews"
	"github.com/nordlayer/printing-platform/internal/storage"
	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/metrics"
	"github.com/nordlayer/printing-platform/pkg/models"

	_ "github.com/nordlayer/printing-platform/docs"
)

// Server holds the HTTP surface of the platform.
type Server struct {
	logger      *zap.Logger
	cfg         *config.Config
	db          *gorm.DB
	identitySvc identities.IdentityService
	catalogSvc  catalog.CatalogService
	contentSvc  content.ContentService
	orderSvc    orders.OrderService
	reviewSvc   reviews.ReviewService
	contactSvc  contact.ContactService
	files       *storage.Service
	cache       *cache.Cache
}

// NewServer creates the HTTP server.
func NewServer(
	logger *zap.Logger,
	cfg *config.Config,
	db *gorm.DB,
	identitySvc identities.IdentityService,
	catalogSvc catalog.CatalogService,
	contentSvc content.ContentService,
	orderSvc orders.OrderService,
	reviewSvc reviews.ReviewService,
	contactSvc contact.ContactService,
	files *storage.Service,
	cache *cache.Cache,
) *Server {
	return &Server{
		logger:      logger,
		cfg:         cfg,
		db:          db,
		identitySvc: identitySvc,
		catalogSvc:  catalogSvc,
		contentSvc:  contentSvc,
		orderSvc:    orderSvc,
		reviewSvc:   reviewSvc,
		contactSvc:  contactSvc,
		files:       files,
		cache:       cache,
	}
}

// Router assembles the gin engine with middleware and all routes.
func (s *Server) Router() *gin.Engine {
	if !s.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))
	router.Use(s.corsMiddleware())
	router.Use(securityHeaders())
	router.Use(metricsMiddleware())

	router.GET("/health", s.handleHealth)
	router.GET("/health/ready", s.handleReady)
	router.GET("/health/live", s.handleLive)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Interactive API docs are kept off production deployments.
	if s.cfg.IsDevelopment() {
		router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		router.GET("/redoc", s.handleRedoc)
	}

	if s.files.Backend().Name() == "local" {
		router.Static("/uploads", s.cfg.Upload.Dir)
	}

	api := router.Group("/api")
	v1 := api.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", s.handleLogin)
			auth.POST("/login/token", s.handleLoginForm)
			auth.GET("/me", s.authMiddleware(), s.handleGetMe)
			auth.POST("/change-password", s.authMiddleware(), s.handleChangePassword)

			users := auth.Group("/users", s.authMiddleware(), s.adminMiddleware())
			{
				users.GET("", s.handleListUsers)
				users.POST("", s.handleCreateUser)
				users.GET("/:id", s.handleGetUser)
				users.PUT("/:id", s.handleUpdateUser)
				users.DELETE("/:id", s.handleDeleteUser)
			}
		}

		projects := v1.Group("/projects")
		{
			projects.GET("", s.handleListProjects)
			projects.GET("/featured", s.handleFeaturedProjects)
			projects.GET("/categories", s.handleProjectCategories)
			projects.GET("/complexity-levels", s.handleComplexityLevels)
			projects.GET("/:id", s.handleGetProject)
			projects.GET("/:id/stl", s.handleProjectSTL)

			admin := projects.Group("", s.authMiddleware(), s.adminMiddleware())
			{
				admin.POST("", s.handleCreateProject)
				admin.PUT("/:id", s.handleUpdateProject)
				admin.DELETE("/:id", s.handleDeleteProject)
				admin.POST("/:id/stl", s.handleUploadProjectSTL)
				admin.POST("/:id/images", s.handleUploadProjectImage)
			}
		}

		services := v1.Group("/services")
		{
			services.GET("", s.handleListServices)
			services.GET("/search", s.handleSearchServices)
			services.GET("/:id", s.handleGetService)

			admin := services.Group("", s.authMiddleware(), s.adminMiddleware())
			{
				admin.POST("", s.handleCreateService)
				admin.PUT("/:id", s.handleUpdateService)
				admin.DELETE("/:id", s.handleDeleteService)
				admin.POST("/:id/activate", s.handleActivateService)
				admin.PUT("/:id/deactivate", s.handleDeactivateService)
			}
		}

		colors := v1.Group("/colors")
		{
			colors.GET("", s.handleListColors)
			colors.GET("/types", s.handleColorTypes)
			colors.GET("/by-type/:type", s.handleColorsByType)
			colors.GET("/:id", s.handleGetColor)

			admin := colors.Group("", s.authMiddleware(), s.adminMiddleware())
			{
				admin.POST("", s.handleCreateColor)
				admin.PUT("/:id", s.handleUpdateColor)
				admin.DELETE("/:id", s.handleDeleteColor)
				admin.PATCH("/:id/toggle-active", s.handleToggleColorActive)
				admin.PATCH("/:id/toggle-new", s.handleToggleColorNew)
			}
		}

		articles := v1.Group("/articles")
		{
			articles.GET("", s.handleListArticles)
			articles.GET("/:id", s.handleGetArticle)

			admin := articles.Group("", s.authMiddleware(), s.adminMiddleware())
			{
				admin.POST("", s.handleCreateArticle)
				admin.PUT("/:id", s.handleUpdateArticle)
				admin.DELETE("/:id", s.handleDeleteArticle)
			}
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", s.handleListCategories)
			categories.GET("/search", s.handleSearchCategories)
			categories.GET("/slug/:slug", s.handleGetCategoryBySlug)
			categories.GET("/:id", s.handleGetCategory)

			admin := categories.Group("", s.authMiddleware(), s.adminMiddleware())
			{
				admin.POST("", s.handleCreateCategory)
				admin.PUT("/:id", s.handleUpdateCategory)
				admin.DELETE("/:id", s.handleDeleteCategory)
				admin.POST("/:id/activate", s.handleActivateCategory)
			}
		}

		ordersGroup := v1.Group("/orders")
		{
			ordersGroup.POST("", s.handleCreateOrder)
			ordersGroup.GET("/search", s.handleSearchOrders)
			ordersGroup.POST("/webhook/status-change", s.handleOrderStatusWebhook)

			admin := ordersGroup.Group("", s.authMiddleware(), s.adminMiddleware())
			{
				admin.GET("", s.handleListOrders)
				admin.GET("/:id", s.handleGetOrder)
				admin.PUT("/:id", s.handleUpdateOrder)
				admin.DELETE("/:id", s.handleDeleteOrder)
			}
		}

		reviewsGroup := v1.Group("/reviews")
		{
			reviewsGroup.GET("", s.handleListReviews)
			reviewsGroup.GET("/stats", s.handleReviewStats)
			reviewsGroup.GET("/featured", s.handleFeaturedReviews)
			reviewsGroup.POST("", s.handleCreateReview)
			reviewsGroup.GET("/:id", s.handleGetReview)

			admin := reviewsGroup.Group("/admin", s.authMiddleware(), s.adminMiddleware())
			{
				admin.GET("/all", s.handleAdminListReviews)
				admin.GET("/pending", s.handlePendingReviews)
				admin.GET("/search", s.handleSearchReviews)
				admin.GET("/:id", s.handleAdminGetReview)
				admin.PUT("/:id", s.handleAdminUpdateReview)
				admin.PUT("/:id/moderate", s.handleModerateReview)
				admin.PUT("/:id/approve", s.handleApproveReview)
				admin.PUT("/:id/reject", s.handleRejectReview)
				admin.PUT("/:id/feature", s.handleFeatureReview)
				admin.DELETE("/:id", s.handleDeleteReview)
			}
		}

		contactGroup := v1.Group("/contact")
		{
			contactGroup.POST("", s.handleSubmitContact)

			admin := contactGroup.Group("/admin", s.authMiddleware(), s.adminMiddleware())
			{
				admin.GET("", s.handleListContacts)
				admin.GET("/stats", s.handleContactStats)
				admin.GET("/new", s.handleNewContacts)
				admin.GET("/in-progress", s.handleInProgressContacts)
				admin.GET("/search", s.handleSearchContacts)
				admin.GET("/recent", s.handleRecentContacts)
				admin.GET("/by-email/:email", s.handleContactsByEmail)
				admin.GET("/:id", s.handleGetContact)
				admin.PUT("/:id", s.handleUpdateContact)
				admin.PUT("/:id/status", s.handleContactStatus)
				admin.PUT("/:id/notes", s.handleContactNotes)
				admin.DELETE("/:id", s.handleDeleteContact)
			}
		}

		contentGroup := v1.Group("/content")
		{
			contentGroup.GET("/settings/public", s.handlePublicSettings)
			contentGroup.GET("/pages/:slug", s.handleGetPublicPage)

			admin := contentGroup.Group("", s.authMiddleware(), s.adminMiddleware())
			{
				admin.GET("/settings", s.handleListSettings)
				admin.POST("/settings", s.handleUpsertSetting)
				admin.PUT("/settings/:key", s.handleUpdateSetting)
				admin.DELETE("/settings/:key", s.handleDeleteSetting)
				admin.GET("/pages", s.handleListPages)
				admin.POST("/pages", s.handleUpsertPage)
				admin.PUT("/pages/:slug", s.handleUpdatePage)
				admin.DELETE("/pages/:slug", s.handleDeletePage)
			}
		}

		cms := v1.Group("/cms")
		{
			cms.GET("/content/by-keys", s.handleContentByKeys)
			cms.GET("/content/by-group/:group", s.handleContentByGroup)
			cms.GET("/pages/:slug", s.handleGetPublicPage)

			admin := cms.Group("", s.authMiddleware(), s.adminMiddleware())
			{
				admin.GET("/content", s.handleListContent)
				admin.GET("/content/groups", s.handleContentGroups)
				admin.POST("/content", s.handleUpsertContent)
				admin.PUT("/content/:key", s.handleUpdateContent)
				admin.DELETE("/content/:key", s.handleDeleteContent)
			}
		}

		filesGroup := v1.Group("/files", s.authMiddleware(), s.adminMiddleware())
		{
			filesGroup.POST("/upload", s.handleUploadFile)
			filesGroup.DELETE("/delete", s.handleDeleteFile)
			filesGroup.GET("/list", s.handleListFiles)
			filesGroup.GET("/info", s.handleFileInfo)
			filesGroup.GET("/presigned-url", s.handlePresignedURL)
			filesGroup.GET("/validate", s.handleValidateFile)
			filesGroup.POST("/upload-order-files/:orderID", s.handleUploadOrderFiles)
		}

		cacheGroup := v1.Group("/cache", s.authMiddleware(), s.adminMiddleware())
		{
			cacheGroup.GET("/stats", s.handleCacheStats)
			cacheGroup.GET("/keys", s.handleCacheKeys)
			cacheGroup.GET("/key/:key", s.handleCacheGet)
			cacheGroup.DELETE("/key/:key", s.handleCacheDelete)
			cacheGroup.DELETE("/clear", s.handleCacheClear)
			cacheGroup.POST("/warm-up", s.handleCacheWarmUp)
		}

		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/telegram/notifications", s.handleTelegramWebhook)
			webhooks.GET("/telegram/health", s.handleTelegramHealth)
		}
	}

	return router
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.cfg.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = s.cfg.AllowedOrigins
	}
	return cors.New(cfg)
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Next()
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// authMiddleware validates the bearer token and stores the caller's
// identity in the request context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			s.abortError(c, apierr.Unauthorizedf("missing authorization header"))
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := s.identitySvc.ValidateToken(token)
		if err != nil {
			s.abortError(c, err)
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			s.abortError(c, apierr.Unauthorizedf("malformed token subject"))
			return
		}

		c.Set("userID", userID)
		c.Set("isAdmin", claims.IsAdmin)
		c.Next()
	}
}

// isAdminCaller reports whether the request carries a valid admin
// token. Public routes use it to widen what they expose without
// requiring authentication.
func (s *Server) isAdminCaller(c *gin.Context) bool {
	token := c.GetHeader("Authorization")
	if token == "" {
		return false
	}
	claims, err := s.identitySvc.ValidateToken(strings.TrimPrefix(token, "Bearer "))
	if err != nil {
		return false
	}
	return claims.IsAdmin
}

// adminMiddleware requires the authenticated caller to be an admin.
func (s *Server) adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAdmin") {
			s.abortError(c, apierr.Forbiddenf("admin access required"))
			return
		}
		c.Next()
	}
}

func (s *Server) currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// respond writes the standard success envelope.
func (s *Server) respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, models.DataResponse{Success: true, Data: data, Message: message})
}

// respondPage writes the paginated success envelope.
func (s *Server) respondPage(c *gin.Context, data any, page, perPage int, total int64) {
	c.JSON(http.StatusOK, models.PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: models.NewPagination(page, perPage, total),
	})
}

// writeError maps an error onto the error envelope.
func (s *Server) writeError(c *gin.Context, err error) {
	status := apierr.StatusCode(err)
	body := models.ErrorBody{Message: err.Error(), Type: "internal_error"}

	var apiErr *apierr.Error
	if apierr.As(err, &apiErr) {
		body.Message = apiErr.Message
		body.Type = apiErr.Kind
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		body.Message = "internal server error"
	}
	c.JSON(status, models.ErrorResponse{Error: body})
}

func (s *Server) abortError(c *gin.Context, err error) {
	s.writeError(c, err)
	c.Abort()
}

// bindError wraps gin binding failures into a 400 validation error.
func (s *Server) bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorBody{
		Message: "request validation failed",
		Type:    "validation_error",
		Details: err.Error(),
	}})
}

// parseID reads a UUID path parameter.
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.Invalidf("invalid %s: %q", name, c.Param(name))
	}
	return id, nil
}

// pageParams reads pagination query parameters with defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "printing-platform",
	})
}

// handleReady checks the database and reports the cache state. A dead
// database makes the service unready; a dead cache only degrades it.
func (s *Server) handleReady(c *gin.Context) {
	status := "healthy"
	httpStatus := http.StatusOK
	checks := gin.H{}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		checks["database"] = "down"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "up"
	}

	if s.cache.Enabled() {
		checks["cache"] = "up"
	} else {
		checks["cache"] = "disabled"
		if status == "healthy" {
			status = "degraded"
		}
	}

	c.JSON(httpStatus, gin.H{"status": status, "checks": checks})
}

func (s *Server) handleLive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// handleRedoc serves a ReDoc page as the second documentation UI,
// reading the same spec gin-swagger exposes at /docs/doc.json.
func (s *Server) handleRedoc(c *gin.Context) {
	const page = `<!DOCTYPE html>
<html>
<head>
  <title>Printing Platform API</title>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>body { margin: 0; padding: 0; }</style>
</head>
<body>
  <redoc spec-url="/docs/doc.json"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
