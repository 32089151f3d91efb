package service

import (
	"errors"

	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFavoriteNotFound      = errors.New("favorite not found")
	ErrFavoriteAlreadyExists = errors.New("product is already in favorites")
)

type FavoriteService interface {
	GetUserFavorites(userID uint) ([]model.Favorite, error)
	AddFavorite(userID, productID uint) error
	RemoveFavorite(userID, productID uint) error
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, productRepo repository.ProductRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (s *favoriteService) GetUserFavorites(userID uint) ([]model.Favorite, error) {
	favorites, err := s.favoriteRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return favorites, nil
}

func (s *favoriteService) AddFavorite(userID, productID uint) error {
	logger.Info("Adding favorite", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	existing, err := s.favoriteRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		logger.Warn("Favorite already exists", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return ErrFavoriteAlreadyExists
	}

	favorite := &model.Favorite{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		return err
	}

	logger.Info("Favorite added successfully", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}

func (s *favoriteService) RemoveFavorite(userID, productID uint) error {
	logger.Info("Removing favorite", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.favoriteRepo.FindByUserAndProduct(userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}

	return s.favoriteRepo.Delete(userID, productID)
}
