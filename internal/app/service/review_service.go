package service

import (
	"errors"

	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("product already reviewed by this user")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrNotReviewAuthor     = errors.New("not the review author")
)

type ReviewService interface {
	GetProductReviews(productID uint) ([]model.Review, error)
	CreateReview(userID, productID uint, rating int, body string) (*model.Review, error)
	UpdateReview(userID, reviewID uint, rating int, body string) (*model.Review, error)
	DeleteReview(userID, reviewID uint) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) GetProductReviews(productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.FindByProductID(productID)
	if err != nil {
		logger.Error("Failed to fetch product reviews", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return reviews, nil
}

func (s *reviewService) CreateReview(userID, productID uint, rating int, body string) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"rating":     rating,
	})

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing, err := s.reviewRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Review already exists", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrReviewAlreadyExists
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Body:      body,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	logger.Info("Review created successfully", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": productID,
	})

	// Reload with the author attached for the response body.
	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) UpdateReview(userID, reviewID uint, rating int, body string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if review.UserID != userID {
		logger.Warn("Review update denied: not the author", map[string]interface{}{
			"user_id":   userID,
			"review_id": reviewID,
			"author_id": review.UserID,
		})
		return nil, ErrNotReviewAuthor
	}

	review.Rating = rating
	review.Body = body
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	logger.Info("Review updated successfully", map[string]interface{}{
		"review_id": review.ID,
	})
	return review, nil
}

func (s *reviewService) DeleteReview(userID, reviewID uint) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.UserID != userID {
		logger.Warn("Review deletion denied: not the author", map[string]interface{}{
			"user_id":   userID,
			"review_id": reviewID,
			"author_id": review.UserID,
		})
		return ErrNotReviewAuthor
	}

	return s.reviewRepo.Delete(reviewID)
}
