package service

import (
	"errors"

	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("not the product owner")
)

type ProductService interface {
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetProductsByOwner(ownerID uint) ([]model.Product, error)
	CreateProduct(ownerID uint, name string, price float64, description, previewImage string) (*model.Product, error)
	UpdateProduct(userID, productID uint, name string, price float64, description, previewImage string) (*model.Product, error)
	DeleteProduct(userID, productID uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch products", err, nil)
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductsByOwner(ownerID uint) ([]model.Product, error) {
	return s.productRepo.FindByOwnerID(ownerID)
}

func (s *productService) CreateProduct(ownerID uint, name string, price float64, description, previewImage string) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"owner_id": ownerID,
		"name":     name,
	})

	if name == "" || price <= 0 {
		return nil, ErrInvalidInput
	}

	product := &model.Product{
		Name:         name,
		Price:        price,
		Description:  description,
		PreviewImage: previewImage,
		OwnerID:      ownerID,
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"owner_id": ownerID,
			"name":     name,
		})
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"owner_id":   ownerID,
	})

	// Reload with the owner attached for the response body.
	return s.productRepo.FindByID(product.ID)
}

func (s *productService) UpdateProduct(userID, productID uint, name string, price float64, description, previewImage string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if product.OwnerID != userID {
		logger.Warn("Product update denied: not the owner", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"owner_id":   product.OwnerID,
		})
		return nil, ErrNotProductOwner
	}

	if name == "" || price <= 0 {
		return nil, ErrInvalidInput
	}

	product.Name = name
	product.Price = price
	product.Description = description
	product.PreviewImage = previewImage

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": productID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(userID, productID uint) error {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if product.OwnerID != userID {
		logger.Warn("Product deletion denied: not the owner", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"owner_id":   product.OwnerID,
		})
		return ErrNotProductOwner
	}

	if err := s.productRepo.Delete(productID); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": productID,
	})
	return nil
}
