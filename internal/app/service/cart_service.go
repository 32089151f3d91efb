package service

import (
	"errors"
	"time"

	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty        = errors.New("shopping cart is empty")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidInput     = errors.New("invalid input data")
)

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID uint, quantity int) error
	UpdateCartItem(userID, cartItemID uint, quantity int) (*model.CartItem, error)
	RemoveFromCart(userID, cartItemID uint) error
	Checkout(userID uint) error
	PurgeStale(olderThan time.Duration) (int64, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetUserCart returns every line item in the user's cart, products and
// product owners included. A cart with no items is reported as ErrCartEmpty,
// a client-visible condition rather than a server fault.
func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartItems) == 0 {
		logger.Debug("User cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrCartEmpty
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

// AddToCart puts quantity units of a product into the user's cart. If the
// product is already there the quantities merge; a second row is never
// created for the same (user, product) pair.
func (s *cartService) AddToCart(userID, productID uint, quantity int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if productID == 0 || quantity <= 0 {
		logger.Warn("Cannot add to cart: invalid input", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return ErrInvalidInput
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	if err := s.cartRepo.Upsert(userID, productID, quantity); err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}

// UpdateCartItem replaces the quantity of an existing cart row. Rows that do
// not exist or belong to another user both come back as ErrCartItemNotFound;
// callers cannot tell the two apart.
func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return nil, ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return nil, ErrCartItemNotFound
	}

	if quantity <= 0 {
		logger.Warn("Cannot update cart item: invalid quantity", map[string]interface{}{
			"cart_item_id": cartItemID,
			"quantity":     quantity,
		})
		return nil, ErrInvalidInput
	}

	cartItem.Quantity = quantity
	if err := s.cartRepo.Update(cartItem); err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return nil, err
	}

	logger.Info("Cart item updated successfully", map[string]interface{}{
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})
	return cartItem, nil
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	cartItem, err := s.cartRepo.FindByID(cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart item not found for removal", map[string]interface{}{
				"cart_item_id": cartItemID,
			})
			return ErrCartItemNotFound
		}
		logger.Error("Failed to fetch cart item for removal", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	if cartItem.UserID != userID {
		logger.Warn("Cart item removal denied: ownership mismatch", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": cartItemID,
			"owner_id":     cartItem.UserID,
		})
		return ErrCartItemNotFound
	}

	if err := s.cartRepo.Delete(cartItemID); err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"cart_item_id": cartItemID,
		})
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"cart_item_id": cartItemID,
	})
	return nil
}

// Checkout clears the user's whole cart in one statement. No order record is
// produced and no inventory changes; the system's checkout is exactly "empty
// the cart". A cart that was already empty is ErrCartEmpty.
func (s *cartService) Checkout(userID uint) error {
	logger.Info("Checking out user cart", map[string]interface{}{
		"user_id": userID,
	})

	deleted, err := s.cartRepo.DeleteByUserID(userID)
	if err != nil {
		logger.Error("Failed to check out cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if deleted == 0 {
		logger.Warn("Checkout rejected: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return ErrCartEmpty
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"user_id": userID,
		"items":   deleted,
	})
	return nil
}

// PurgeStale removes cart rows untouched for olderThan. Called by the
// cleanup scheduler, never from a request path.
func (s *cartService) PurgeStale(olderThan time.Duration) (int64, error) {
	before := time.Now().Add(-olderThan)

	purged, err := s.cartRepo.DeleteStale(before)
	if err != nil {
		logger.Error("Failed to purge stale cart items", err, map[string]interface{}{
			"before": before,
		})
		return 0, err
	}

	if purged > 0 {
		logger.Info("Purged stale cart items", map[string]interface{}{
			"count":  purged,
			"before": before,
		})
	}
	return purged, nil
}
