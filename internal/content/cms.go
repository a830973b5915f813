package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// GetContentByKeys loads active CMS fragments for the requested keys,
// keyed by their key. Missing keys are simply absent from the result.
func (s *Service) GetContentByKeys(ctx context.Context, keys []string) (map[string]models.Content, error) {
	if len(keys) == 0 {
		return map[string]models.Content{}, nil
	}
	var entries []models.Content
	err := s.db.WithContext(ctx).
		Where("key IN ? AND is_active = ?", keys, true).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load content by keys: %w", err)
	}
	result := make(map[string]models.Content, len(entries))
	for _, entry := range entries {
		result[entry.Key] = entry
	}
	return result, nil
}

// ListContent returns every fragment, inactive included, for the admin
// dashboard. A non-empty group narrows the list to that group.
func (s *Service) ListContent(ctx context.Context, group string) ([]models.Content, error) {
	q := s.db.WithContext(ctx).Order("group_name, sort_order, key")
	if group != "" {
		q = q.Where("group_name = ?", group)
	}
	var entries []models.Content
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	return entries, nil
}

// ListContentByGroup returns the active fragments of a group in display
// order, cached per group.
func (s *Service) ListContentByGroup(ctx context.Context, group string) ([]models.Content, error) {
	key := cacheKeyContentGroup + group
	var entries []models.Content
	if hit, err := s.cache.Get(ctx, key, &entries); err != nil {
		s.logger.Warn("content group cache read failed", zap.Error(err))
	} else if hit {
		return entries, nil
	}

	err := s.db.WithContext(ctx).
		Where("group_name = ? AND is_active = ?", group, true).
		Order("sort_order, key").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list content group: %w", err)
	}

	if err := s.cache.Set(ctx, key, entries, cacheTTL); err != nil {
		s.logger.Warn("content group cache write failed", zap.Error(err))
	}
	return entries, nil
}

// ListContentGroups returns the distinct group names in use.
func (s *Service) ListContentGroups(ctx context.Context) ([]string, error) {
	var groups []string
	err := s.db.WithContext(ctx).
		Model(&models.Content{}).
		Distinct("group_name").
		Where("group_name <> ''").
		Order("group_name").
		Pluck("group_name", &groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list content groups: %w", err)
	}
	return groups, nil
}

// UpsertContent creates or replaces the fragment stored under req.Key.
func (s *Service) UpsertContent(ctx context.Context, req *models.UpsertContentRequest) (*models.Content, error) {
	if req.Key == "" {
		return nil, apierr.Invalidf("content key is required")
	}
	var entry models.Content
	err := s.db.WithContext(ctx).First(&entry, "key = ?", req.Key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.Content{ID: uuid.New(), Key: req.Key, IsActive: true}
	case err != nil:
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	entry.ContentType = req.ContentType
	if entry.ContentType == "" {
		entry.ContentType = "text"
	}
	entry.Content = req.Content
	entry.JSONContent = req.JSONContent
	entry.Description = req.Description
	entry.GroupName = req.GroupName
	entry.SortOrder = req.SortOrder
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert content: %w", err)
	}
	s.invalidate(ctx, cacheKeyContentGroup+entry.GroupName)
	return &entry, nil
}

// DeleteContent removes the fragment stored under key.
func (s *Service) DeleteContent(ctx context.Context, key string) error {
	var entry models.Content
	if err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFoundf("content %q not found", key)
		}
		return fmt.Errorf("failed to load content: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&entry).Error; err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	s.invalidate(ctx, cacheKeyContentGroup+entry.GroupName)
	return nil
}

// ListPages returns CMS pages, active only for public callers.
func (s *Service) ListPages(ctx context.Context, activeOnly bool) ([]models.Page, error) {
	q := s.db.WithContext(ctx).Order("slug")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var pages []models.Page
	if err := q.Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// GetPage loads a page by slug. Public callers only see active pages.
func (s *Service) GetPage(ctx context.Context, slug string, activeOnly bool) (*models.Page, error) {
	q := s.db.WithContext(ctx).Where("slug = ?", slug)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var page models.Page
	if err := q.First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("page %q not found", slug)
		}
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	return &page, nil
}

// UpsertPage creates or replaces the page stored under req.Slug.
func (s *Service) UpsertPage(ctx context.Context, req *models.UpsertPageRequest) (*models.Page, error) {
	if req.Slug == "" {
		return nil, apierr.Invalidf("page slug is required")
	}
	var page models.Page
	err := s.db.WithContext(ctx).First(&page, "slug = ?", req.Slug).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		page = models.Page{ID: uuid.New(), Slug: req.Slug, IsActive: true}
	case err != nil:
		return nil, fmt.Errorf("failed to load page: %w", err)
	}

	page.Title = req.Title
	page.MetaTitle = req.MetaTitle
	page.MetaDescription = req.MetaDescription
	page.Content = req.Content
	page.PageType = req.PageType
	if page.PageType == "" {
		page.PageType = "custom"
	}
	if req.IsActive != nil {
		page.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(&page).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert page: %w", err)
	}
	return &page, nil
}

// DeletePage removes the page stored under slug.
func (s *Service) DeletePage(ctx context.Context, slug string) error {
	page, err := s.GetPage(ctx, slug, false)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(page).Error; err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	s.logger.Info("page deleted", zap.String("slug", slug))
	return nil
}

// PublicSettings returns the public site settings as a key/value map,
// cached. This backs the unauthenticated frontend bootstrap call.
func (s *Service) PublicSettings(ctx context.Context) (map[string]string, error) {
	var result map[string]string
	if hit, err := s.cache.Get(ctx, cacheKeyPublicSettings, &result); err != nil {
		s.logger.Warn("settings cache read failed", zap.Error(err))
	} else if hit {
		return result, nil
	}

	var settings []models.SiteSetting
	err := s.db.WithContext(ctx).Where("is_public = ?", true).Find(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load public settings: %w", err)
	}
	result = make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}

	if err := s.cache.Set(ctx, cacheKeyPublicSettings, result, cacheTTL); err != nil {
		s.logger.Warn("settings cache write failed", zap.Error(err))
	}
	return result, nil
}

// ListSettings returns every site setting for the admin dashboard.
func (s *Service) ListSettings(ctx context.Context) ([]models.SiteSetting, error) {
	var settings []models.SiteSetting
	err := s.db.WithContext(ctx).Order("category, key").Find(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// UpsertSetting creates or replaces the setting stored under req.Key.
func (s *Service) UpsertSetting(ctx context.Context, req *models.UpsertSettingRequest) (*models.SiteSetting, error) {
	if req.Key == "" {
		return nil, apierr.Invalidf("setting key is required")
	}
	var setting models.SiteSetting
	err := s.db.WithContext(ctx).First(&setting, "key = ?", req.Key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting = models.SiteSetting{ID: uuid.New(), Key: req.Key, IsPublic: true}
	case err != nil:
		return nil, fmt.Errorf("failed to load setting: %w", err)
	}

	setting.Value = req.Value
	setting.ValueType = req.ValueType
	if setting.ValueType == "" {
		setting.ValueType = "text"
	}
	setting.Description = req.Description
	setting.Category = req.Category
	if setting.Category == "" {
		setting.Category = "general"
	}
	if req.IsPublic != nil {
		setting.IsPublic = *req.IsPublic
	}

	if err := s.db.WithContext(ctx).Save(&setting).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}
	s.invalidate(ctx, cacheKeyPublicSettings)
	return &setting, nil
}

// DeleteSetting removes the setting stored under key.
func (s *Service) DeleteSetting(ctx context.Context, key string) error {
	var setting models.SiteSetting
	if err := s.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFoundf("setting %q not found", key)
		}
		return fmt.Errorf("failed to load setting: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&setting).Error; err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	s.invalidate(ctx, cacheKeyPublicSettings)
	return nil
}
