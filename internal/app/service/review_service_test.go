package service

import (
	"testing"

	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewService := NewReviewService(reviewRepo, productRepo)

	user := &model.User{
		FirstName:    "Alice",
		LastName:     "Turner",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{Name: "Ceramic mug", Price: 24.00, OwnerID: user.ID}
	require.NoError(t, testDB.Create(product).Error)

	return reviewService, testDB, user, product
}

func TestReviewService_CreateAndList(t *testing.T) {
	reviewService, _, user, product := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, product.ID, 5, "Wonderful glaze")
	require.NoError(t, err)
	assert.NotZero(t, review.ID)

	reviews, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Wonderful glaze", reviews[0].Body)
	assert.Equal(t, user.FirstName, reviews[0].User.FirstName)
}

func TestReviewService_CreateReview_InvalidRating(t *testing.T) {
	reviewService, _, user, product := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, product.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = reviewService.CreateReview(user.ID, product.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestReviewService_CreateReview_ProductNotFound(t *testing.T) {
	reviewService, _, user, _ := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, 9999, 4, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService_CreateReview_OnePerUser(t *testing.T) {
	reviewService, _, user, product := setupReviewServiceTest(t)

	_, err := reviewService.CreateReview(user.ID, product.ID, 4, "Nice")
	require.NoError(t, err)

	_, err = reviewService.CreateReview(user.ID, product.ID, 2, "Changed my mind")
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)
}

func TestReviewService_UpdateReview_AuthorOnly(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)

	other := &model.User{
		FirstName: "Bruno", LastName: "Keller",
		Email: "bruno@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	review, err := reviewService.CreateReview(user.ID, product.ID, 3, "Decent")
	require.NoError(t, err)

	_, err = reviewService.UpdateReview(other.ID, review.ID, 5, "Tampered")
	assert.ErrorIs(t, err, ErrNotReviewAuthor)

	updated, err := reviewService.UpdateReview(user.ID, review.ID, 5, "Grew on me")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "Grew on me", updated.Body)

	reviews, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Grew on me", reviews[0].Body)
}

func TestReviewService_UpdateReview_InvalidRating(t *testing.T) {
	reviewService, _, user, product := setupReviewServiceTest(t)

	review, err := reviewService.CreateReview(user.ID, product.ID, 4, "Solid")
	require.NoError(t, err)

	_, err = reviewService.UpdateReview(user.ID, review.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	reviews, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)
}

func TestReviewService_UpdateReview_NotFound(t *testing.T) {
	reviewService, _, user, _ := setupReviewServiceTest(t)

	_, err := reviewService.UpdateReview(user.ID, 9999, 4, "")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_DeleteReview_AuthorOnly(t *testing.T) {
	reviewService, testDB, user, product := setupReviewServiceTest(t)

	other := &model.User{
		FirstName: "Bruno", LastName: "Keller",
		Email: "bruno@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	review, err := reviewService.CreateReview(user.ID, product.ID, 4, "Nice")
	require.NoError(t, err)

	assert.ErrorIs(t, reviewService.DeleteReview(other.ID, review.ID), ErrNotReviewAuthor)
	require.NoError(t, reviewService.DeleteReview(user.ID, review.ID))

	reviews, err := reviewService.GetProductReviews(product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 0)
}

func TestReviewService_DeleteReview_NotFound(t *testing.T) {
	reviewService, _, user, _ := setupReviewServiceTest(t)

	assert.ErrorIs(t, reviewService.DeleteReview(user.ID, 9999), ErrReviewNotFound)
}
