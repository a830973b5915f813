package catalog

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

// complexityHours maps a complexity level onto its duration band, used
// when filtering projects that only carry an estimated duration.
var complexityHours = map[string][2]int{
	models.ComplexitySimple:  {1, 3},
	models.ComplexityMedium:  {4, 8},
	models.ComplexityComplex: {9, 1 << 20},
}

// ListProjects returns a page of projects matching the filter, newest
// first, with their image rows preloaded.
func (s *Service) ListProjects(ctx context.Context, filter models.ProjectFilter, page, perPage int) ([]models.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	q := s.db.WithContext(ctx).Model(&models.Project{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.IsFeatured != nil {
		q = q.Where("is_featured = ?", *filter.IsFeatured)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if len(filter.ComplexityLevels) > 0 {
		q = q.Where(complexityCondition(s.db, filter.ComplexityLevels))
	}
	if filter.MinPrice != nil {
		q = q.Where("estimated_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("estimated_price <= ?", *filter.MaxPrice)
	}
	if filter.MinHours != nil {
		q = q.Where("estimated_duration_hours >= ?", *filter.MinHours)
	}
	if filter.MaxHours != nil {
		q = q.Where("estimated_duration_hours <= ?", *filter.MaxHours)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	var projects []models.Project
	err := q.Preload("ProjectImages").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// complexityCondition matches projects whose complexity_level is one of
// the requested levels, or whose estimated duration falls in a requested
// level's hour band when no explicit level is set.
func complexityCondition(db *gorm.DB, levels []string) *gorm.DB {
	cond := db.Where("complexity_level IN ?", levels)
	for _, level := range levels {
		band, ok := complexityHours[level]
		if !ok {
			continue
		}
		cond = cond.Or(
			"(complexity_level IS NULL OR complexity_level = '') AND estimated_duration_hours BETWEEN ? AND ?",
			band[0], band[1],
		)
	}
	return cond
}

// ListFeaturedProjects returns the featured gallery picks, cached.
func (s *Service) ListFeaturedProjects(ctx context.Context, limit int) ([]models.Project, error) {
	if limit < 1 || limit > 50 {
		limit = 6
	}
	key := fmt.Sprintf("%s:%d", cacheKeyFeaturedProjects, limit)

	var projects []models.Project
	if hit, err := s.cache.Get(ctx, key, &projects); err != nil {
		s.logger.Warn("featured projects cache read failed", zap.Error(err))
	} else if hit {
		return projects, nil
	}

	err := s.db.WithContext(ctx).
		Preload("ProjectImages").
		Where("is_featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured projects: %w", err)
	}

	if err := s.cache.Set(ctx, key, projects, cacheTTL); err != nil {
		s.logger.Warn("featured projects cache write failed", zap.Error(err))
	}
	return projects, nil
}

// ListProjectCategories returns the distinct categories in use.
func (s *Service) ListProjectCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Distinct("category").
		Where("category <> ''").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list project categories: %w", err)
	}
	return categories, nil
}

// GetProject loads one project with its images.
func (s *Service) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("ProjectImages").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("project %s not found", id)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &project, nil
}

// CreateProject stores a new gallery project.
func (s *Service) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	project := &models.Project{
		ID:                     uuid.New(),
		Title:                  req.Title,
		Description:            req.Description,
		Category:               req.Category,
		IsFeatured:             req.IsFeatured,
		Images:                 req.Images,
		Metadata:               req.Metadata,
		EstimatedPrice:         req.EstimatedPrice,
		EstimatedDurationHours: req.EstimatedDurationHours,
		ComplexityLevel:        req.ComplexityLevel,
		PriceRangeMin:          req.PriceRangeMin,
		PriceRangeMax:          req.PriceRangeMax,
	}
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.invalidatePattern(ctx, cacheKeyFeaturedProjects+"*")
	s.logger.Info("project created", zap.String("id", project.ID.String()), zap.String("title", project.Title))
	return project, nil
}

// UpdateProject applies the non-nil fields of req.
func (s *Service) UpdateProject(ctx context.Context, id uuid.UUID, req *models.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Category != nil {
		project.Category = *req.Category
	}
	if req.IsFeatured != nil {
		project.IsFeatured = *req.IsFeatured
	}
	if req.Images != nil {
		project.Images = req.Images
	}
	if req.Metadata != nil {
		project.Metadata = req.Metadata
	}
	if req.EstimatedPrice.Valid {
		project.EstimatedPrice = req.EstimatedPrice
	}
	if req.EstimatedDurationHours != nil {
		project.EstimatedDurationHours = req.EstimatedDurationHours
	}
	if req.ComplexityLevel != nil {
		project.ComplexityLevel = *req.ComplexityLevel
	}
	if req.PriceRangeMin.Valid {
		project.PriceRangeMin = req.PriceRangeMin
	}
	if req.PriceRangeMax.Valid {
		project.PriceRangeMax = req.PriceRangeMax
	}

	// Save writes every column, so the json serializer runs for Images
	// and Metadata and explicit false values survive.
	if err := s.db.WithContext(ctx).Omit("ProjectImages").Save(project).Error; err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.invalidatePattern(ctx, cacheKeyFeaturedProjects+"*")
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project and its image rows.
func (s *Service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.invalidatePattern(ctx, cacheKeyFeaturedProjects+"*")
	s.logger.Info("project deleted", zap.String("id", id.String()))
	return nil
}

// AttachProjectSTL records the stored STL file path on the project.
func (s *Service) AttachProjectSTL(ctx context.Context, id uuid.UUID, filePath string) (*models.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(project).Update("stl_file", filePath).Error; err != nil {
		return nil, fmt.Errorf("failed to attach stl file: %w", err)
	}
	project.STLFile = filePath
	return project, nil
}

// AddProjectImage stores an image row. Marking it primary demotes the
// current primary image.
func (s *Service) AddProjectImage(ctx context.Context, id uuid.UUID, imagePath, altText string, isPrimary bool) (*models.ProjectImage, error) {
	if _, err := s.GetProject(ctx, id); err != nil {
		return nil, err
	}

	image := &models.ProjectImage{
		ID:        uuid.New(),
		ProjectID: id,
		ImagePath: imagePath,
		AltText:   altText,
		IsPrimary: isPrimary,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if isPrimary {
			if err := tx.Model(&models.ProjectImage{}).
				Where("project_id = ? AND is_primary = ?", id, true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Select("*").Create(image).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add project image: %w", err)
	}

	s.invalidatePattern(ctx, cacheKeyFeaturedProjects+"*")
	return image, nil
}

func (s *Service) invalidatePattern(ctx context.Context, pattern string) {
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
