package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// ListCategories returns categories, optionally filtered by type and
// restricted to active ones.
func (s *Service) ListCategories(ctx context.Context, categoryType string, activeOnly bool) ([]models.Category, error) {
	q := s.db.WithContext(ctx).Order("name")
	if categoryType != "" {
		q = q.Where("type = ?", categoryType)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory loads one category by id.
func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.getCategoryByID(ctx, id)
}

// GetCategoryBySlug loads one category by slug.
func (s *Service) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("category %q not found", slug)
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &category, nil
}

// SearchCategories matches categories by name or description.
func (s *Service) SearchCategories(ctx context.Context, query string) ([]models.Category, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	return categories, nil
}

// CreateCategory stores a new category. Name and slug must be unique.
func (s *Service) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := s.ensureCategoryFree(ctx, req.Name, req.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		Type:        req.Type,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := s.db.WithContext(ctx).Select("*").Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.logger.Info("category created", zap.String("slug", category.Slug), zap.String("type", category.Type))
	return category, nil
}

// UpdateCategory applies the non-nil fields of req.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.getCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, slug := category.Name, category.Slug
	if req.Name != nil {
		name = *req.Name
	}
	if req.Slug != nil {
		slug = *req.Slug
	}
	if name != category.Name || slug != category.Slug {
		if err := s.ensureCategoryFree(ctx, name, slug, id); err != nil {
			return nil, err
		}
	}

	category.Name = name
	category.Slug = slug
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Type != nil {
		category.Type = *req.Type
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// SetCategoryActive activates or deactivates a category.
func (s *Service) SetCategoryActive(ctx context.Context, id uuid.UUID, active bool) (*models.Category, error) {
	category, err := s.getCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(category).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	category.IsActive = active
	return category, nil
}

// DeleteCategory deactivates a category. The row stays so articles and
// projects referencing it keep resolving; it just drops out of active
// listings.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.getCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(category).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	s.logger.Info("category deactivated", zap.String("slug", category.Slug))
	return nil
}

func (s *Service) getCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("category %s not found", id)
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &category, nil
}

func (s *Service) ensureCategoryFree(ctx context.Context, name, slug string, exclude uuid.UUID) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? OR slug = ?", name, slug)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category uniqueness: %w", err)
	}
	if count > 0 {
		return apierr.Conflictf("category name or slug already exists")
	}
	return nil
}
