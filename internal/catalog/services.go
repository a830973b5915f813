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

// ListServices returns offered services, active only for the public
// listing. The active listing is cached.
func (s *Service) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	var services []models.Service
	if activeOnly {
		if hit, err := s.cache.Get(ctx, cacheKeyActiveServices, &services); err != nil {
			s.logger.Warn("services cache read failed", zap.Error(err))
		} else if hit {
			return services, nil
		}
	}

	q := s.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	if activeOnly {
		if err := s.cache.Set(ctx, cacheKeyActiveServices, services, cacheTTL); err != nil {
			s.logger.Warn("services cache write failed", zap.Error(err))
		}
	}
	return services, nil
}

// SearchServices matches active services by name or description.
func (s *Service) SearchServices(ctx context.Context, query string) ([]models.Service, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var services []models.Service
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("name").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search services: %w", err)
	}
	return services, nil
}

// GetService loads one service.
func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := s.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("service %s not found", id)
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	return &svc, nil
}

// CreateService stores a new offered service.
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.Service, error) {
	svc := &models.Service{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Features:    req.Features,
		Icon:        req.Icon,
		IsActive:    true,
	}
	if svc.Icon == "" {
		svc.Icon = "cube"
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	if err := s.db.WithContext(ctx).Select("*").Create(svc).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.invalidate(ctx, cacheKeyActiveServices)
	s.logger.Info("service created", zap.String("id", svc.ID.String()), zap.String("name", svc.Name))
	return svc, nil
}

// UpdateService applies the non-nil fields of req.
func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req *models.UpdateServiceRequest) (*models.Service, error) {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.Features != nil {
		svc.Features = req.Features
	}
	if req.Icon != nil {
		svc.Icon = *req.Icon
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(svc).Error; err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	s.invalidate(ctx, cacheKeyActiveServices)
	return svc, nil
}

// SetServiceActive activates or deactivates a service.
func (s *Service) SetServiceActive(ctx context.Context, id uuid.UUID, active bool) (*models.Service, error) {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(svc).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	svc.IsActive = active
	s.invalidate(ctx, cacheKeyActiveServices)
	return svc, nil
}

// DeleteService removes a service. Services referenced by orders are
// kept to preserve order history; deactivate them instead.
func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	svc, err := s.GetService(ctx, id)
	if err != nil {
		return err
	}

	var orderCount int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("service_id = ?", id).Count(&orderCount).Error; err != nil {
		return fmt.Errorf("failed to check service orders: %w", err)
	}
	if orderCount > 0 {
		return apierr.Conflictf("service %s has %d orders; deactivate it instead", id, orderCount)
	}

	if err := s.db.WithContext(ctx).Delete(svc).Error; err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	s.invalidate(ctx, cacheKeyActiveServices)
	s.logger.Info("service deleted", zap.String("id", id.String()))
	return nil
}
