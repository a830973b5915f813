package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nordlayer/printing-platform/internal/cache"
	"github.com/nordlayer/printing-platform/pkg/models"
)

const (
	cacheKeyPublicSettings = "content:settings:public"
	cacheKeyContentGroup   = "content:group:" // + group name
	cacheTTL               = 5 * time.Minute
)

// ContentService manages the editorial side of the site: blog articles,
// categories, keyed CMS fragments, structured pages and site settings.
type ContentService interface {
	// Articles
	ListArticles(ctx context.Context, publishedOnly bool, category string, page, perPage int) ([]models.Article, int64, error)
	GetArticle(ctx context.Context, idOrSlug string, includeUnpublished bool) (*models.Article, error)
	CreateArticle(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error)
	UpdateArticle(ctx context.Context, id uuid.UUID, req *models.UpdateArticleRequest) (*models.Article, error)
	PublishArticle(ctx context.Context, id uuid.UUID) (*models.Article, error)
	DeleteArticle(ctx context.Context, id uuid.UUID) error

	// Categories
	ListCategories(ctx context.Context, categoryType string, activeOnly bool) ([]models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	SearchCategories(ctx context.Context, query string) ([]models.Category, error)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error)
	SetCategoryActive(ctx context.Context, id uuid.UUID, active bool) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// CMS fragments
	ListContent(ctx context.Context, group string) ([]models.Content, error)
	GetContentByKeys(ctx context.Context, keys []string) (map[string]models.Content, error)
	ListContentByGroup(ctx context.Context, group string) ([]models.Content, error)
	ListContentGroups(ctx context.Context) ([]string, error)
	UpsertContent(ctx context.Context, req *models.UpsertContentRequest) (*models.Content, error)
	DeleteContent(ctx context.Context, key string) error

	// Pages
	ListPages(ctx context.Context, activeOnly bool) ([]models.Page, error)
	GetPage(ctx context.Context, slug string, activeOnly bool) (*models.Page, error)
	UpsertPage(ctx context.Context, req *models.UpsertPageRequest) (*models.Page, error)
	DeletePage(ctx context.Context, slug string) error

	// Site settings
	PublicSettings(ctx context.Context) (map[string]string, error)
	ListSettings(ctx context.Context) ([]models.SiteSetting, error)
	UpsertSetting(ctx context.Context, req *models.UpsertSettingRequest) (*models.SiteSetting, error)
	DeleteSetting(ctx context.Context, key string) error
}

// Service implements ContentService on gorm with a Redis read cache.
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
	cache  *cache.Cache
}

// NewService creates the content service.
func NewService(logger *zap.Logger, db *gorm.DB, cache *cache.Cache) (ContentService, error) {
	return &Service{logger: logger, db: db, cache: cache}, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
