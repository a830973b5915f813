package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nordlayer/printing-platform/internal/cache"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// Cache keys and TTL for the hot public listings.
const (
	cacheKeyFeaturedProjects = "catalog:projects:featured"
	cacheKeyActiveServices   = "catalog:services:active"
	cacheKeyActiveColors     = "catalog:colors:active"
	cacheTTL                 = 5 * time.Minute
)

// CatalogService manages the public catalog: gallery projects, offered
// services and filament colors.
type CatalogService interface {
	// Projects
	ListProjects(ctx context.Context, filter models.ProjectFilter, page, perPage int) ([]models.Project, int64, error)
	ListFeaturedProjects(ctx context.Context, limit int) ([]models.Project, error)
	ListProjectCategories(ctx context.Context) ([]string, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, req *models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	AttachProjectSTL(ctx context.Context, id uuid.UUID, filePath string) (*models.Project, error)
	AddProjectImage(ctx context.Context, id uuid.UUID, imagePath, altText string, isPrimary bool) (*models.ProjectImage, error)

	// Services
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	SearchServices(ctx context.Context, query string) ([]models.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*models.Service, error)
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *models.UpdateServiceRequest) (*models.Service, error)
	SetServiceActive(ctx context.Context, id uuid.UUID, active bool) (*models.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error

	// Colors
	ListColors(ctx context.Context, activeOnly bool) ([]models.Color, error)
	ListColorsByType(ctx context.Context, colorType string) ([]models.Color, error)
	ListColorTypes(ctx context.Context) ([]string, error)
	GetColor(ctx context.Context, id uuid.UUID) (*models.Color, error)
	CreateColor(ctx context.Context, req *models.CreateColorRequest) (*models.Color, error)
	UpdateColor(ctx context.Context, id uuid.UUID, req *models.UpdateColorRequest) (*models.Color, error)
	ToggleColorActive(ctx context.Context, id uuid.UUID) (*models.Color, error)
	ToggleColorNew(ctx context.Context, id uuid.UUID) (*models.Color, error)
	DeleteColor(ctx context.Context, id uuid.UUID) error
}

// Service implements CatalogService on gorm with a Redis read cache.
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
	cache  *cache.Cache
}

// NewService creates the catalog service.
func NewService(logger *zap.Logger, db *gorm.DB, cache *cache.Cache) (CatalogService, error) {
	return &Service{logger: logger, db: db, cache: cache}, nil
}

// invalidate drops cached listings after a write. Cache failures are
// logged only; the write already succeeded.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
