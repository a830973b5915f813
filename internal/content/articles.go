package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// ListArticles returns a page of articles, newest published first.
// Public callers see published articles only.
func (s *Service) ListArticles(ctx context.Context, publishedOnly bool, category string, page, perPage int) ([]models.Article, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := s.db.WithContext(ctx).Model(&models.Article{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	var articles []models.Article
	err := q.Order("published_at DESC NULLS LAST, created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, total, nil
}

// GetArticle loads an article by UUID or slug. Unpublished articles
// are reported as not found unless includeUnpublished is set. Reads of
// published articles count a view; the increment failing never fails
// the read.
func (s *Service) GetArticle(ctx context.Context, idOrSlug string, includeUnpublished bool) (*models.Article, error) {
	var article models.Article
	q := s.db.WithContext(ctx)
	if id, err := uuid.Parse(idOrSlug); err == nil {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("slug = ?", idOrSlug)
	}
	if err := q.First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("article %q not found", idOrSlug)
		}
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if !article.IsPublished && !includeUnpublished {
		return nil, apierr.NotFoundf("article %q not found", idOrSlug)
	}

	if article.IsPublished {
		err := s.db.WithContext(ctx).Model(&article).
			UpdateColumn("views", gorm.Expr("views + 1")).Error
		if err != nil {
			s.logger.Warn("failed to count article view", zap.String("slug", article.Slug), zap.Error(err))
		} else {
			article.Views++
		}
	}
	return &article, nil
}

// CreateArticle stores a new article. Publishing at create time stamps
// published_at.
func (s *Service) CreateArticle(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error) {
	if err := s.ensureSlugFree(ctx, req.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	article := &models.Article{
		ID:            uuid.New(),
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Category:      req.Category,
		Slug:          req.Slug,
		Tags:          req.Tags,
		Status:        req.Status,
		PublishedAt:   req.PublishedAt,
	}
	if article.Status == "" {
		article.Status = "draft"
	}
	if article.Status == "published" {
		article.IsPublished = true
		if article.PublishedAt == nil {
			now := time.Now().UTC()
			article.PublishedAt = &now
		}
	}

	if err := s.db.WithContext(ctx).Create(article).Error; err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	s.logger.Info("article created", zap.String("slug", article.Slug))
	return article, nil
}

// UpdateArticle applies the non-nil fields of req. Moving the status to
// published stamps published_at once; moving back to draft hides it.
func (s *Service) UpdateArticle(ctx context.Context, id uuid.UUID, req *models.UpdateArticleRequest) (*models.Article, error) {
	article, err := s.getArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != article.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, id); err != nil {
			return nil, err
		}
		article.Slug = *req.Slug
	}
	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.Excerpt != nil {
		article.Excerpt = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		article.FeaturedImage = *req.FeaturedImage
	}
	if req.Category != nil {
		article.Category = *req.Category
	}
	if req.Tags != nil {
		article.Tags = req.Tags
	}
	if req.Status != nil && *req.Status != article.Status {
		article.Status = *req.Status
		if article.Status == "published" {
			article.IsPublished = true
			if article.PublishedAt == nil {
				now := time.Now().UTC()
				article.PublishedAt = &now
			}
		} else {
			article.IsPublished = false
		}
	}

	if err := s.db.WithContext(ctx).Save(article).Error; err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

// PublishArticle marks an article published, stamping published_at on
// the first publish.
func (s *Service) PublishArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	published := "published"
	return s.UpdateArticle(ctx, id, &models.UpdateArticleRequest{Status: &published})
}

// DeleteArticle removes an article.
func (s *Service) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	article, err := s.getArticleByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(article).Error; err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	s.logger.Info("article deleted", zap.String("slug", article.Slug))
	return nil
}

func (s *Service) getArticleByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	if err := s.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("article %s not found", id)
		}
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	return &article, nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug string, exclude uuid.UUID) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if count > 0 {
		return apierr.Conflictf("article slug %q already exists", slug)
	}
	return nil
}
