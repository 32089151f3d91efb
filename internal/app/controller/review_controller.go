package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/service"
	apperrors "github.com/makersmarket/makersmarket-backend/internal/errors"
	"github.com/makersmarket/makersmarket-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Body   string `json:"body"`
}

func reviewJSON(r *model.Review) gin.H {
	return gin.H{
		"id":        r.ID,
		"productId": r.ProductID,
		"rating":    r.Rating,
		"body":      r.Body,
		"author": gin.H{
			"id":         r.User.ID,
			"first_name": r.User.FirstName,
			"last_name":  r.User.LastName,
		},
		"createdAt": r.CreatedAt,
	}
}

// ListReviews returns all reviews for a product
// GET /api/products/:id/reviews
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	reviews, err := ctrl.reviewService.GetProductReviews(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list reviews")
		return
	}

	result := make([]gin.H, 0, len(reviews))
	for i := range reviews {
		result = append(result, reviewJSON(&reviews[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": result,
	})
}

// CreateReview posts a review on a product, one per user
// POST /api/products/:id/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, uint(productID), req.Rating, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrInvalidRating) {
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
			return
		}
		if errors.Is(err, service.ErrReviewAlreadyExists) {
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "You have already reviewed this product")
			return
		}
		log.Error("Failed to create review", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create review")
		return
	}

	log.Info("Review created", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"review_id":  review.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review posted successfully",
		"review":  reviewJSON(review),
	})
}

// UpdateReview edits the caller's own review
// PUT /api/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid review ID")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.UpdateReview(userID, uint(reviewID), req.Rating, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
			return
		}
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
			return
		}
		if errors.Is(err, service.ErrNotReviewAuthor) {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Only the author can edit this review")
			return
		}
		log.Error("Failed to update review", err, map[string]interface{}{
			"user_id":   userID,
			"review_id": reviewID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  reviewJSON(review),
	})
}

// DeleteReview removes the caller's own review
// DELETE /api/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid review ID")
		return
	}

	if err := ctrl.reviewService.DeleteReview(userID, uint(reviewID)); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
			return
		}
		if errors.Is(err, service.ErrNotReviewAuthor) {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Only the author can delete this review")
			return
		}
		log.Error("Failed to delete review", err, map[string]interface{}{
			"user_id":   userID,
			"review_id": reviewID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}
