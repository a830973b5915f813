package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apierr "github.com/nordlayer/printing-platform/pkg/errors"
	"github.com/nordlayer/printing-platform/pkg/models"
)

func setupReviewTest(t *testing.T) ReviewService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Review{}))

	svc, err := NewService(zap.NewNop(), db)
	require.NoError(t, err)
	return svc
}

func submitReview(t *testing.T, svc ReviewService, name string, rating int) *models.Review {
	t.Helper()
	review, err := svc.Create(context.Background(), &models.CreateReviewRequest{
		CustomerName:  name,
		CustomerEmail: name + "@Example.com",
		Rating:        rating,
		Title:         "Great print",
		Content:       "Came out perfectly.",
	})
	require.NoError(t, err)
	return review
}

func TestReviewModeration(t *testing.T) {
	svc := setupReviewTest(t)
	ctx := context.Background()

	review := submitReview(t, svc, "bob", 5)
	assert.False(t, review.IsApproved)
	assert.Equal(t, "bob@example.com", review.CustomerEmail)

	t.Run("unapproved review is hidden from the public", func(t *testing.T) {
		_, total, err := svc.ListApproved(ctx, 1, 20)
		require.NoError(t, err)
		assert.Zero(t, total)

		_, err = svc.GetApproved(ctx, review.ID)
		assert.Equal(t, 404, apierr.StatusCode(err))

		got, err := svc.Get(ctx, review.ID)
		require.NoError(t, err)
		assert.Equal(t, review.ID, got.ID)
	})

	t.Run("pending queue lists it", func(t *testing.T) {
		pending, err := svc.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, review.ID, pending[0].ID)
	})

	t.Run("featuring an unapproved review is rejected", func(t *testing.T) {
		_, err := svc.SetFeatured(ctx, review.ID, true)
		require.Error(t, err)
		assert.Equal(t, 400, apierr.StatusCode(err))
	})

	t.Run("approval makes it public", func(t *testing.T) {
		approved, err := svc.Approve(ctx, review.ID)
		require.NoError(t, err)
		assert.True(t, approved.IsApproved)

		reviews, total, err := svc.ListApproved(ctx, 1, 20)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Len(t, reviews, 1)

		got, err := svc.GetApproved(ctx, review.ID)
		require.NoError(t, err)
		assert.Equal(t, review.ID, got.ID)
	})

	t.Run("approved review can be featured", func(t *testing.T) {
		featured, err := svc.SetFeatured(ctx, review.ID, true)
		require.NoError(t, err)
		assert.True(t, featured.IsFeatured)

		list, err := svc.ListFeatured(ctx, 6)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("rejection hides it and drops the featured flag", func(t *testing.T) {
		rejected, err := svc.Reject(ctx, review.ID)
		require.NoError(t, err)
		assert.False(t, rejected.IsApproved)
		assert.False(t, rejected.IsFeatured)

		_, total, err := svc.ListApproved(ctx, 1, 20)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestReviewStats(t *testing.T) {
	svc := setupReviewTest(t)
	ctx := context.Background()

	for _, rating := range []int{5, 5, 4} {
		review := submitReview(t, svc, "customer", rating)
		_, err := svc.Approve(ctx, review.ID)
		require.NoError(t, err)
	}
	submitReview(t, svc, "pending", 1)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.InDelta(t, 14.0/3.0, stats.AverageRating, 0.001)
	assert.EqualValues(t, 2, stats.Distribution[5])
	assert.EqualValues(t, 1, stats.Distribution[4])
	assert.EqualValues(t, 0, stats.Distribution[1])
}

func TestReviewSearchAndUpdate(t *testing.T) {
	svc := setupReviewTest(t)
	ctx := context.Background()

	review := submitReview(t, svc, "Margarita", 4)

	t.Run("search matches the customer name", func(t *testing.T) {
		results, err := svc.Search(ctx, "marga")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, review.ID, results[0].ID)

		results, err = svc.Search(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("update edits content and flags", func(t *testing.T) {
		content := "Edited by moderator."
		approved := true
		updated, err := svc.Update(ctx, review.ID, &models.UpdateReviewRequest{
			Content:    &content,
			IsApproved: &approved,
		})
		require.NoError(t, err)
		assert.Equal(t, content, updated.Content)
		assert.True(t, updated.IsApproved)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, review.ID))
		_, err := svc.Get(ctx, review.ID)
		assert.Equal(t, 404, apierr.StatusCode(err))
	})

	t.Run("missing review is 404", func(t *testing.T) {
		_, err := svc.Approve(ctx, uuid.New())
		assert.Equal(t, 404, apierr.StatusCode(err))
	})
}
