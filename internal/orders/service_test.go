package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	mu            sync.Mutex
	created       []uuid.UUID
	statusChanges []string
	contacts      int
}

func (n *recordingNotifier) OrderCreated(_ context.Context, order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, order.ID)
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, order *models.Order, previous string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanges = append(n.statusChanges, previous+"->"+order.Status)
}

func (n *recordingNotifier) ContactSubmitted(_ context.Context, _ *models.ContactRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts++
}

func setupOrderTest(t *testing.T) (OrderService, *gorm.DB, *recordingNotifier, *models.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Service{},
		&models.Order{}, &models.OrderFile{},
	))

	printing := &models.Service{ID: uuid.New(), Name: "FDM Printing", IsActive: true}
	require.NoError(t, db.Create(printing).Error)

	notifier := &recordingNotifier{}
	svc, err := NewService(zap.NewNop(), db, notifier)
	require.NoError(t, err)
	return svc, db, notifier, printing
}

func TestCreateOrder(t *testing.T) {
	svc, _, notifier, printing := setupOrderTest(t)
	ctx := context.Background()

	t.Run("unknown service rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &models.CreateOrderRequest{
			CustomerName:  "Bob",
			CustomerEmail: "bob@example.com",
			ServiceID:     uuid.New(),
			Source:        models.OrderSourceWeb,
		})
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("anonymous order with phone contact", func(t *testing.T) {
		order, err := svc.Create(ctx, &models.CreateOrderRequest{
			CustomerName:  "Bob",
			CustomerEmail: "Bob@Example.com",
			CustomerPhone: "+1555000111",
			ServiceID:     printing.ID,
			Source:        models.OrderSourceWeb,
		})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusNew, order.Status)
		assert.Equal(t, "bob@example.com", order.CustomerEmail)
		assert.Equal(t, "+1555000111", order.CustomerContact)
		assert.Nil(t, order.CustomerID)
		assert.Contains(t, notifier.created, order.ID)
	})

	t.Run("email falls back as contact when phone is empty", func(t *testing.T) {
		order, err := svc.Create(ctx, &models.CreateOrderRequest{
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			ServiceID:     printing.ID,
			Source:        models.OrderSourceTelegram,
		})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", order.CustomerContact)
		assert.Equal(t, models.OrderSourceTelegram, order.Source)
	})
}

func TestOrderLifecycle(t *testing.T) {
	svc, _, notifier, printing := setupOrderTest(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, &models.CreateOrderRequest{
		CustomerName:   "Bob",
		CustomerEmail:  "bob@example.com",
		ServiceID:      printing.ID,
		Source:         models.OrderSourceWeb,
		Specifications: map[string]any{"material": "PLA", "infill": 20},
	})
	require.NoError(t, err)

	t.Run("get preloads the service", func(t *testing.T) {
		got, err := svc.Get(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Service)
		assert.Equal(t, "FDM Printing", got.Service.Name)
		assert.Equal(t, "PLA", got.Specifications["material"])
	})

	t.Run("status change notifies with the previous status", func(t *testing.T) {
		confirmed := models.OrderStatusConfirmed
		price := decimal.NewNullDecimal(decimal.NewFromInt(80))
		updated, err := svc.Update(ctx, order.ID, &models.UpdateOrderRequest{
			Status:     &confirmed,
			TotalPrice: price,
		})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, updated.Status)
		assert.True(t, updated.TotalPrice.Valid)
		assert.Contains(t, notifier.statusChanges, "new->confirmed")
	})

	t.Run("update without status change stays quiet", func(t *testing.T) {
		before := len(notifier.statusChanges)
		notes := "rush job"
		_, err := svc.Update(ctx, order.ID, &models.UpdateOrderRequest{Notes: &notes})
		require.NoError(t, err)
		assert.Len(t, notifier.statusChanges, before)
	})

	t.Run("list filters by status", func(t *testing.T) {
		orders, total, err := svc.List(ctx, models.OrderStatusConfirmed, 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)

		_, total, err = svc.List(ctx, models.OrderStatusCancelled, 1, 20)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("unknown status filter rejected", func(t *testing.T) {
		_, _, err := svc.List(ctx, "shipped", 1, 20)
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("search by email is case insensitive", func(t *testing.T) {
		orders, err := svc.SearchByEmail(ctx, "  BOB@example.com ")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)

		_, err = svc.SearchByEmail(ctx, "")
		assert.Equal(t, 400, apierr.StatusCode(err))
	})
}

func TestOrderFiles(t *testing.T) {
	svc, db, _, printing := setupOrderTest(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, &models.CreateOrderRequest{
		CustomerName:  "Bob",
		CustomerEmail: "bob@example.com",
		ServiceID:     printing.ID,
		Source:        models.OrderSourceWeb,
	})
	require.NoError(t, err)

	t.Run("attach records rows", func(t *testing.T) {
		rows, err := svc.AttachFiles(ctx, order.ID, []AttachedFile{
			{FilePath: "orders/x/bracket.stl", OriginalFilename: "bracket.stl", FileSize: 1024, FileType: ".stl"},
			{FilePath: "orders/x/lid.3mf", OriginalFilename: "lid.3mf", FileSize: 2048, FileType: ".3mf"},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		got, err := svc.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Len(t, got.Files, 2)
	})

	t.Run("empty attach rejected", func(t *testing.T) {
		_, err := svc.AttachFiles(ctx, order.ID, nil)
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("attach to missing order is 404", func(t *testing.T) {
		_, err := svc.AttachFiles(ctx, uuid.New(), []AttachedFile{{FilePath: "x"}})
		assert.Equal(t, 404, apierr.StatusCode(err))
	})

	t.Run("delete cascades file rows", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, order.ID))

		var count int64
		require.NoError(t, db.Model(&models.OrderFile{}).Where("order_id = ?", order.ID).Count(&count).Error)
		assert.Zero(t, count)

		_, err := svc.Get(ctx, order.ID)
		assert.Equal(t, 404, apierr.StatusCode(err))
	})
}
