package catalog

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

// validateColorVariant enforces the fields each color type requires:
// solid needs a hex code, gradient at least two stops, metallic a base
// color.
func validateColorVariant(colorType, hexCode string, stops []models.GradientStop, metallicBase string) error {
	switch colorType {
	case models.ColorTypeSolid:
		if hexCode == "" {
			return apierr.Invalidf("solid colors require hex_code")
		}
	case models.ColorTypeGradient:
		if len(stops) < 2 {
			return apierr.Invalidf("gradient colors require at least two gradient stops")
		}
	case models.ColorTypeMetallic:
		if metallicBase == "" {
			return apierr.Invalidf("metallic colors require metallic_base")
		}
	default:
		return apierr.Invalidf("unknown color type %q", colorType)
	}
	return nil
}

// ListColors returns filament colors ordered for display. The active
// listing is cached.
func (s *Service) ListColors(ctx context.Context, activeOnly bool) ([]models.Color, error) {
	var colors []models.Color
	if activeOnly {
		if hit, err := s.cache.Get(ctx, cacheKeyActiveColors, &colors); err != nil {
			s.logger.Warn("colors cache read failed", zap.Error(err))
		} else if hit {
			return colors, nil
		}
	}

	q := s.db.WithContext(ctx).Order("sort_order, name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&colors).Error; err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}

	if activeOnly {
		if err := s.cache.Set(ctx, cacheKeyActiveColors, colors, cacheTTL); err != nil {
			s.logger.Warn("colors cache write failed", zap.Error(err))
		}
	}
	return colors, nil
}

// ListColorsByType returns active colors of one variant.
func (s *Service) ListColorsByType(ctx context.Context, colorType string) ([]models.Color, error) {
	valid := false
	for _, t := range models.ColorTypes {
		if t == colorType {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apierr.Invalidf("unknown color type %q", colorType)
	}

	var colors []models.Color
	err := s.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", colorType, true).
		Order("sort_order, name").
		Find(&colors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list colors by type: %w", err)
	}
	return colors, nil
}

// ListColorTypes returns the supported color variants.
func (s *Service) ListColorTypes(ctx context.Context) ([]string, error) {
	return models.ColorTypes, nil
}

// GetColor loads one color.
func (s *Service) GetColor(ctx context.Context, id uuid.UUID) (*models.Color, error) {
	var color models.Color
	if err := s.db.WithContext(ctx).First(&color, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("color %s not found", id)
		}
		return nil, fmt.Errorf("failed to load color: %w", err)
	}
	return &color, nil
}

// CreateColor stores a new filament color after variant validation.
func (s *Service) CreateColor(ctx context.Context, req *models.CreateColorRequest) (*models.Color, error) {
	if err := validateColorVariant(req.Type, req.HexCode, req.GradientColors, req.MetallicBase); err != nil {
		return nil, err
	}

	color := &models.Color{
		ID:                uuid.New(),
		Name:              req.Name,
		Type:              req.Type,
		HexCode:           req.HexCode,
		GradientColors:    req.GradientColors,
		GradientDirection: req.GradientDirection,
		MetallicBase:      req.MetallicBase,
		MetallicIntensity: req.MetallicIntensity,
		IsActive:          true,
		SortOrder:         req.SortOrder,
		PriceModifier:     1.0,
	}
	if req.IsActive != nil {
		color.IsActive = *req.IsActive
	}
	if req.IsNew != nil {
		color.IsNew = *req.IsNew
	}
	if req.PriceModifier != nil {
		color.PriceModifier = *req.PriceModifier
	}
	if color.Type == models.ColorTypeGradient && color.GradientDirection == "" {
		color.GradientDirection = "linear"
	}

	if err := s.db.WithContext(ctx).Select("*").Create(color).Error; err != nil {
		return nil, fmt.Errorf("failed to create color: %w", err)
	}
	s.invalidate(ctx, cacheKeyActiveColors)
	s.logger.Info("color created", zap.String("id", color.ID.String()), zap.String("type", color.Type))
	return color, nil
}

// UpdateColor applies the non-nil fields of req and revalidates the
// variant fields against the resulting type.
func (s *Service) UpdateColor(ctx context.Context, id uuid.UUID, req *models.UpdateColorRequest) (*models.Color, error) {
	color, err := s.GetColor(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		color.Name = *req.Name
	}
	if req.Type != nil {
		color.Type = *req.Type
	}
	if req.HexCode != nil {
		color.HexCode = *req.HexCode
	}
	if req.GradientColors != nil {
		color.GradientColors = req.GradientColors
	}
	if req.GradientDirection != nil {
		color.GradientDirection = *req.GradientDirection
	}
	if req.MetallicBase != nil {
		color.MetallicBase = *req.MetallicBase
	}
	if req.MetallicIntensity != nil {
		color.MetallicIntensity = req.MetallicIntensity
	}
	if req.IsActive != nil {
		color.IsActive = *req.IsActive
	}
	if req.IsNew != nil {
		color.IsNew = *req.IsNew
	}
	if req.SortOrder != nil {
		color.SortOrder = *req.SortOrder
	}
	if req.PriceModifier != nil {
		color.PriceModifier = *req.PriceModifier
	}

	if err := validateColorVariant(color.Type, color.HexCode, color.GradientColors, color.MetallicBase); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(color).Error; err != nil {
		return nil, fmt.Errorf("failed to update color: %w", err)
	}
	s.invalidate(ctx, cacheKeyActiveColors)
	return color, nil
}

// ToggleColorActive flips the active flag.
func (s *Service) ToggleColorActive(ctx context.Context, id uuid.UUID) (*models.Color, error) {
	return s.toggle(ctx, id, "is_active")
}

// ToggleColorNew flips the "new arrival" badge.
func (s *Service) ToggleColorNew(ctx context.Context, id uuid.UUID) (*models.Color, error) {
	return s.toggle(ctx, id, "is_new")
}

func (s *Service) toggle(ctx context.Context, id uuid.UUID, column string) (*models.Color, error) {
	color, err := s.GetColor(ctx, id)
	if err != nil {
		return nil, err
	}
	var value bool
	switch column {
	case "is_active":
		color.IsActive = !color.IsActive
		value = color.IsActive
	case "is_new":
		color.IsNew = !color.IsNew
		value = color.IsNew
	}
	if err := s.db.WithContext(ctx).Model(color).Update(column, value).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle color %s: %w", column, err)
	}
	s.invalidate(ctx, cacheKeyActiveColors)
	return color, nil
}

// DeleteColor removes a color.
func (s *Service) DeleteColor(ctx context.Context, id uuid.UUID) error {
	color, err := s.GetColor(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(color).Error; err != nil {
		return fmt.Errorf("failed to delete color: %w", err)
	}
	s.invalidate(ctx, cacheKeyActiveColors)
	s.logger.Info("color deleted", zap.String("id", id.String()))
	return nil
}
