package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nordlayer/printing-platform/internal/notification"
	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/metrics"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// AttachedFile describes an uploaded model file to record on an order.
type AttachedFile struct {
	FilePath         string
	OriginalFilename string
	FileSize         int64
	FileType         string
}

// OrderService manages customer print orders.
type OrderService interface {
	Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	List(ctx context.Context, status string, page, perPage int) ([]models.Order, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SearchByEmail(ctx context.Context, email string) ([]models.Order, error)
	AttachFiles(ctx context.Context, id uuid.UUID, files []AttachedFile) ([]models.OrderFile, error)
}

// Service implements OrderService on gorm.
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	notifier notification.Notifier
}

// NewService creates the order service.
func NewService(logger *zap.Logger, db *gorm.DB, notifier notification.Notifier) (OrderService, error) {
	return &Service{logger: logger, db: db, notifier: notifier}, nil
}

// Create places a new order. The referenced service must exist; when no
// phone is given the email doubles as the contact field. Admins are
// notified asynchronously.
func (s *Service) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	var svc models.Service
	if err := s.db.WithContext(ctx).First(&svc, "id = ?", req.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Invalidf("service %s does not exist", req.ServiceID)
		}
		return nil, fmt.Errorf("failed to check service: %w", err)
	}

	contact := strings.TrimSpace(req.CustomerPhone)
	if contact == "" {
		contact = req.CustomerEmail
	}

	order := &models.Order{
		ID:                 uuid.New(),
		CustomerName:       req.CustomerName,
		CustomerEmail:      strings.ToLower(req.CustomerEmail),
		CustomerPhone:      req.CustomerPhone,
		CustomerContact:    contact,
		AlternativeContact: req.AlternativeContact,
		ServiceID:          req.ServiceID,
		CustomerID:         req.CustomerID,
		Specifications:     req.Specifications,
		Status:             models.OrderStatusNew,
		TotalPrice:         req.TotalPrice,
		Source:             req.Source,
		Notes:              req.Notes,
		DeliveryNeeded:     req.DeliveryNeeded,
		DeliveryDetails:    req.DeliveryDetails,
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.Service = &svc

	metrics.OrdersCreated.WithLabelValues(order.Source).Inc()
	s.logger.Info("order created",
		zap.String("id", order.ID.String()),
		zap.String("service", svc.Name),
		zap.String("source", order.Source))
	s.notifier.OrderCreated(ctx, order)
	return order, nil
}

// List returns a page of orders, newest first, optionally filtered by
// status, with service and files preloaded.
func (s *Service) List(ctx context.Context, status string, page, perPage int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	if status != "" && !validStatus(status) {
		return nil, 0, apierr.Invalidf("unknown order status %q", status)
	}

	q := s.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := q.Preload("Service").Preload("Files").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// Get loads one order with its service, customer and files.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Service").Preload("Customer").Preload("Files").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFoundf("order %s not found", id)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// Update applies the non-nil fields of req. A status change triggers an
// admin notification carrying the previous status.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousStatus := order.Status

	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.TotalPrice.Valid {
		order.TotalPrice = req.TotalPrice
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.DeliveryNeeded != nil {
		order.DeliveryNeeded = *req.DeliveryNeeded
	}
	if req.DeliveryDetails != nil {
		order.DeliveryDetails = *req.DeliveryDetails
	}
	if req.Specifications != nil {
		order.Specifications = req.Specifications
	}

	err = s.db.WithContext(ctx).
		Omit("Service", "Customer", "Files").
		Save(order).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if req.Status != nil && *req.Status != previousStatus {
		s.logger.Info("order status changed",
			zap.String("id", id.String()),
			zap.String("from", previousStatus),
			zap.String("to", order.Status))
		s.notifier.OrderStatusChanged(ctx, order, previousStatus)
	}
	return order, nil
}

// Delete removes an order and its file rows. Stored files are cleaned
// up by the handler, which knows the storage backend.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	s.logger.Info("order deleted", zap.String("id", id.String()), zap.String("status", order.Status))
	return nil
}

// SearchByEmail returns a customer's orders, newest first. Backs the
// public "my orders" lookup.
func (s *Service) SearchByEmail(ctx context.Context, email string) ([]models.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apierr.Invalidf("email is required")
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Service").Preload("Files").
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	return orders, nil
}

// AttachFiles records uploaded model files on an order.
func (s *Service) AttachFiles(ctx context.Context, id uuid.UUID, files []AttachedFile) ([]models.OrderFile, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apierr.Invalidf("no files to attach")
	}

	rows := make([]models.OrderFile, len(files))
	for i, f := range files {
		rows[i] = models.OrderFile{
			ID:               uuid.New(),
			OrderID:          id,
			FilePath:         f.FilePath,
			OriginalFilename: f.OriginalFilename,
			FileSize:         f.FileSize,
			FileType:         f.FileType,
		}
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to attach files: %w", err)
	}
	return rows, nil
}

func validStatus(status string) bool {
	for _, s := range models.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
