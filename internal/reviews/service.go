package reviews

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

// ReviewService manages customer reviews. Public reads only ever see
// approved reviews; new submissions start unapproved.
type ReviewService interface {
	// Public
	ListApproved(ctx context.Context, page, perPage int) ([]models.Review, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Review, error)
	GetApproved(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Stats(ctx context.Context) (*models.ReviewStats, error)
	Create(ctx context.Context, req *models.CreateReviewRequest) (*models.Review, error)

	// Admin
	ListAll(ctx context.Context, page, perPage int) ([]models.Review, int64, error)
	ListPending(ctx context.Context) ([]models.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Search(ctx context.Context, query string) ([]models.Review, error)
	Moderate(ctx context.Context, id uuid.UUID, req *models.ModerateReviewRequest) (*models.Review, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Reject(ctx context.Context, id uuid.UUID) (*models.Review, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Review, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements ReviewService on gorm.
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates the review service.
func NewService(logger *zap.Logger, db *gorm.DB) (ReviewService, error) {
	return &Service{logger: logger, db: db}, nil
}

// ListApproved returns a page of approved reviews, newest first.
func (s *Service) ListApproved(ctx context.Context, page, perPage int) ([]models.Review, int64, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("is_approved = ?", true), page, perPage)
}

// ListAll returns a page of all reviews for the admin dashboard.
func (s *Service) ListAll(ctx context.Context, page, perPage int) ([]models.Review, int64, error) {
	return s.list(ctx, s.db.WithContext(ctx), page, perPage)
}

func (s *Service) list(ctx context.Context, q *gorm.DB, page, perPage int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := q.Model(&models.Review{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []models.Review
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// ListFeatured returns approved reviews marked featured, best first.
func (s *Service) ListFeatured(ctx context.Context, limit int) ([]models.Review, error) {
	if limit < 1 || limit > 50 {
		limit = 6
	}
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("is_approved = ? AND is_featured = ?", true, true).
		Order("rating DESC, created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured reviews: %w", err)
	}
	return reviews, nil
}

// ListPending returns reviews awaiting moderation, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Order("created_at").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reviews: %w", err)
	}
	return reviews, nil
}

// GetApproved loads one review for public display. Unapproved reviews
// read as not found.
func (s *Service) GetApproved(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !review.IsApproved {
		return nil, apierr.NotFoundf("review %s not found", id)
	}
	return review, nil
}

// Get loads one review regardless of approval.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("review %s not found", id)
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	return &review, nil
}

// Stats aggregates approved reviews: total, average rating and the
// per-star distribution.
func (s *Service) Stats(ctx context.Context) (*models.ReviewStats, error) {
	stats := &models.ReviewStats{Distribution: make(map[int]int64, 5)}
	for star := 1; star <= 5; star++ {
		stats.Distribution[star] = 0
	}

	type row struct {
		Rating int
		Count  int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("is_approved = ?", true).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	var sum int64
	for _, r := range rows {
		stats.Distribution[r.Rating] = r.Count
		stats.Total += r.Count
		sum += int64(r.Rating) * r.Count
	}
	if stats.Total > 0 {
		stats.AverageRating = float64(sum) / float64(stats.Total)
	}
	return stats, nil
}

// Search matches reviews by customer name, title or content.
func (s *Service) Search(ctx context.Context, query string) ([]models.Review, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("LOWER(customer_name) LIKE ? OR LOWER(title) LIKE ? OR LOWER(content) LIKE ?",
			pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
	}
	return reviews, nil
}

// Create stores a new review. Submissions always start unapproved.
func (s *Service) Create(ctx context.Context, req *models.CreateReviewRequest) (*models.Review, error) {
	review := &models.Review{
		ID:            uuid.New(),
		CustomerName:  req.CustomerName,
		CustomerEmail: strings.ToLower(req.CustomerEmail),
		Rating:        req.Rating,
		Title:         req.Title,
		Content:       req.Content,
		Images:        req.Images,
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	s.logger.Info("review submitted",
		zap.String("id", review.ID.String()),
		zap.Int("rating", review.Rating))
	return review, nil
}

// Moderate applies approval and featured flags in one call.
func (s *Service) Moderate(ctx context.Context, id uuid.UUID, req *models.ModerateReviewRequest) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.IsApproved != nil {
		updates["is_approved"] = *req.IsApproved
		review.IsApproved = *req.IsApproved
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
		review.IsFeatured = *req.IsFeatured
	}
	if len(updates) == 0 {
		return review, nil
	}
	if err := s.db.WithContext(ctx).Model(review).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to moderate review: %w", err)
	}
	s.logger.Info("review moderated",
		zap.String("id", id.String()),
		zap.Bool("approved", review.IsApproved),
		zap.Bool("featured", review.IsFeatured))
	return review, nil
}

// Approve marks a review visible to the public.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	approved := true
	return s.Moderate(ctx, id, &models.ModerateReviewRequest{IsApproved: &approved})
}

// Reject hides a review. Rejected reviews also lose the featured flag.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	rejected, unfeatured := false, false
	return s.Moderate(ctx, id, &models.ModerateReviewRequest{
		IsApproved: &rejected,
		IsFeatured: &unfeatured,
	})
}

// SetFeatured flags a review for the homepage carousel. Only approved
// reviews can be featured.
func (s *Service) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if featured && !review.IsApproved {
		return nil, apierr.Invalidf("only approved reviews can be featured")
	}
	return s.Moderate(ctx, id, &models.ModerateReviewRequest{IsFeatured: &featured})
}

// Update edits a review's content and flags.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		review.CustomerName = *req.CustomerName
	}
	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Content != nil {
		review.Content = *req.Content
	}
	if req.Images != nil {
		review.Images = req.Images
	}
	if req.IsApproved != nil {
		review.IsApproved = *req.IsApproved
	}
	if req.IsFeatured != nil {
		review.IsFeatured = *req.IsFeatured
	}

	if err := s.db.WithContext(ctx).Save(review).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

// Delete removes a review.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(review).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	s.logger.Info("review deleted", zap.String("id", id.String()))
	return nil
}
