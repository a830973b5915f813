package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nordlayer/printing-platform/internal/notification"
	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// ContactService manages contact form submissions and their admin
// workflow.
type ContactService interface {
	Submit(ctx context.Context, req *models.CreateContactRequest) (*models.ContactRequest, error)

	List(ctx context.Context, status string, page, perPage int) ([]models.ContactRequest, int64, error)
	ListNew(ctx context.Context) ([]models.ContactRequest, error)
	ListInProgress(ctx context.Context) ([]models.ContactRequest, error)
	ListRecent(ctx context.Context, since time.Duration) ([]models.ContactRequest, error)
	ListByEmail(ctx context.Context, email string) ([]models.ContactRequest, error)
	Search(ctx context.Context, query string) ([]models.ContactRequest, error)
	Stats(ctx context.Context) (*models.ContactStats, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ContactRequest, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateContactRequest) (*models.ContactRequest, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.ContactRequest, error)
	SetNotes(ctx context.Context, id uuid.UUID, notes string) (*models.ContactRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements ContactService on gorm.
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	notifier notification.Notifier
}

// NewService creates the contact service.
func NewService(logger *zap.Logger, db *gorm.DB, notifier notification.Notifier) (ContactService, error) {
	return &Service{logger: logger, db: db, notifier: notifier}, nil
}

// Submit stores a contact form message and notifies admins.
func (s *Service) Submit(ctx context.Context, req *models.CreateContactRequest) (*models.ContactRequest, error) {
	request := &models.ContactRequest{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   strings.ToLower(req.Email),
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.ContactStatusNew,
	}
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact request: %w", err)
	}

	s.logger.Info("contact request submitted",
		zap.String("id", request.ID.String()),
		zap.String("subject", request.Subject))
	s.notifier.ContactSubmitted(ctx, request)
	return request, nil
}

// List returns a page of contact requests, newest first, optionally
// filtered by status.
func (s *Service) List(ctx context.Context, status string, page, perPage int) ([]models.ContactRequest, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	if status != "" && !validStatus(status) {
		return nil, 0, apierr.Invalidf("unknown contact status %q", status)
	}

	q := s.db.WithContext(ctx).Model(&models.ContactRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contact requests: %w", err)
	}

	var requests []models.ContactRequest
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&requests).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact requests: %w", err)
	}
	return requests, total, nil
}

// ListNew returns unhandled requests, oldest first.
func (s *Service) ListNew(ctx context.Context) ([]models.ContactRequest, error) {
	return s.listByStatus(ctx, models.ContactStatusNew)
}

// ListInProgress returns requests currently being worked.
func (s *Service) ListInProgress(ctx context.Context) ([]models.ContactRequest, error) {
	return s.listByStatus(ctx, models.ContactStatusInProgress)
}

func (s *Service) listByStatus(ctx context.Context, status string) ([]models.ContactRequest, error) {
	var requests []models.ContactRequest
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s contact requests: %w", status, err)
	}
	return requests, nil
}

// ListRecent returns requests submitted within the given window.
func (s *Service) ListRecent(ctx context.Context, since time.Duration) ([]models.ContactRequest, error) {
	if since <= 0 {
		since = 7 * 24 * time.Hour
	}
	var requests []models.ContactRequest
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", time.Now().Add(-since)).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent contact requests: %w", err)
	}
	return requests, nil
}

// ListByEmail returns every request from one sender.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]models.ContactRequest, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apierr.Invalidf("email is required")
	}
	var requests []models.ContactRequest
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contact requests by email: %w", err)
	}
	return requests, nil
}

// Search matches requests by name, email, subject or message.
func (s *Service) Search(ctx context.Context, query string) ([]models.ContactRequest, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var requests []models.ContactRequest
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ? OR LOWER(message) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search contact requests: %w", err)
	}
	return requests, nil
}

// Stats counts requests per status for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*models.ContactStats, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Model(&models.ContactRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate contact requests: %w", err)
	}

	stats := &models.ContactStats{}
	for _, r := range rows {
		stats.Total += r.Count
		switch r.Status {
		case models.ContactStatusNew:
			stats.New = r.Count
		case models.ContactStatusInProgress:
			stats.InProgress = r.Count
		case models.ContactStatusResolved:
			stats.Resolved = r.Count
		case models.ContactStatusClosed:
			stats.Closed = r.Count
		}
	}
	return stats, nil
}

// Get loads one contact request.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.ContactRequest, error) {
	var request models.ContactRequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("contact request %s not found", id)
		}
		return nil, fmt.Errorf("failed to load contact request: %w", err)
	}
	return &request, nil
}

// Update applies the non-nil fields of req.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateContactRequest) (*models.ContactRequest, error) {
	request, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Status != nil {
		updates["status"] = *req.Status
		request.Status = *req.Status
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
		request.AdminNotes = *req.AdminNotes
	}
	if len(updates) == 0 {
		return request, nil
	}
	if err := s.db.WithContext(ctx).Model(request).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact request: %w", err)
	}
	return request, nil
}

// SetStatus moves a request along the workflow.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*models.ContactRequest, error) {
	if !validStatus(status) {
		return nil, apierr.Invalidf("unknown contact status %q", status)
	}
	return s.Update(ctx, id, &models.UpdateContactRequest{Status: &status})
}

// SetNotes replaces the admin notes.
func (s *Service) SetNotes(ctx context.Context, id uuid.UUID, notes string) (*models.ContactRequest, error) {
	return s.Update(ctx, id, &models.UpdateContactRequest{AdminNotes: &notes})
}

// Delete removes a contact request.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	request, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(request).Error; err != nil {
		return fmt.Errorf("failed to delete contact request: %w", err)
	}
	s.logger.Info("contact request deleted", zap.String("id", id.String()))
	return nil
}

func validStatus(status string) bool {
	for _, s := range models.ContactStatuses {
		if s == status {
			return true
		}
	}
	return false
}
