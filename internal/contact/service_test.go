package contact

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

type countingNotifier struct {
	contacts int
}

func (n *countingNotifier) OrderCreated(context.Context, *models.Order)               {}
func (n *countingNotifier) OrderStatusChanged(context.Context, *models.Order, string) {}
func (n *countingNotifier) ContactSubmitted(context.Context, *models.ContactRequest)  { n.contacts++ }

func setupContactTest(t *testing.T) (ContactService, *countingNotifier) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContactRequest{}))

	notifier := &countingNotifier{}
	svc, err := NewService(zap.NewNop(), db, notifier)
	require.NoError(t, err)
	return svc, notifier
}

func TestContactWorkflow(t *testing.T) {
	svc, notifier := setupContactTest(t)
	ctx := context.Background()

	request, err := svc.Submit(ctx, &models.CreateContactRequest{
		Name:    "Bob",
		Email:   "Bob@Example.com",
		Subject: "Bulk order pricing",
		Message: "Can you print 200 brackets?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusNew, request.Status)
	assert.Equal(t, "bob@example.com", request.Email)
	assert.Equal(t, 1, notifier.contacts)

	t.Run("new queue lists it", func(t *testing.T) {
		fresh, err := svc.ListNew(ctx)
		require.NoError(t, err)
		require.Len(t, fresh, 1)
		assert.Equal(t, request.ID, fresh[0].ID)
	})

	t.Run("status moves through the workflow", func(t *testing.T) {
		updated, err := svc.SetStatus(ctx, request.ID, models.ContactStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, models.ContactStatusInProgress, updated.Status)

		inProgress, err := svc.ListInProgress(ctx)
		require.NoError(t, err)
		assert.Len(t, inProgress, 1)

		fresh, err := svc.ListNew(ctx)
		require.NoError(t, err)
		assert.Empty(t, fresh)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.SetStatus(ctx, request.ID, "archived")
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))

		_, _, err = svc.List(ctx, "archived", 1, 20)
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("notes", func(t *testing.T) {
		updated, err := svc.SetNotes(ctx, request.ID, "quoted 950")
		require.NoError(t, err)
		assert.Equal(t, "quoted 950", updated.AdminNotes)
	})

	t.Run("resolve and verify stats", func(t *testing.T) {
		_, err := svc.SetStatus(ctx, request.ID, models.ContactStatusResolved)
		require.NoError(t, err)

		_, err = svc.Submit(ctx, &models.CreateContactRequest{
			Name: "Alice", Email: "alice@example.com",
			Subject: "Broken part", Message: "My print cracked.",
		})
		require.NoError(t, err)

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, stats.Total)
		assert.EqualValues(t, 1, stats.New)
		assert.EqualValues(t, 1, stats.Resolved)
		assert.Zero(t, stats.InProgress)
	})
}

func TestContactLookups(t *testing.T) {
	svc, _ := setupContactTest(t)
	ctx := context.Background()

	request, err := svc.Submit(ctx, &models.CreateContactRequest{
		Name:    "Carol",
		Email:   "carol@example.com",
		Subject: "Material question",
		Message: "Is PETG food safe?",
	})
	require.NoError(t, err)

	t.Run("recent within the window", func(t *testing.T) {
		recent, err := svc.ListRecent(ctx, time.Hour)
		require.NoError(t, err)
		assert.Len(t, recent, 1)
	})

	t.Run("zero window defaults to a week", func(t *testing.T) {
		recent, err := svc.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, recent, 1)
	})

	t.Run("by email normalizes case", func(t *testing.T) {
		requests, err := svc.ListByEmail(ctx, " CAROL@example.com ")
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, request.ID, requests[0].ID)

		_, err = svc.ListByEmail(ctx, "")
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("search spans subject and message", func(t *testing.T) {
		results, err := svc.Search(ctx, "petg")
		require.NoError(t, err)
		assert.Len(t, results, 1)

		results, err = svc.Search(ctx, "material")
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("pagination filters by status", func(t *testing.T) {
		requests, total, err := svc.List(ctx, models.ContactStatusNew, 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Len(t, requests, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, request.ID))
		_, err := svc.Get(ctx, request.ID)
		assert.Equal(t, 404, apierr.StatusCode(err))
	})

	t.Run("missing request is 404", func(t *testing.T) {
		_, err := svc.SetNotes(ctx, uuid.New(), "x")
		assert.Equal(t, 404, apierr.StatusCode(err))
	})
}
