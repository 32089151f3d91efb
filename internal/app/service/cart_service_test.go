package service

import (
	"sync"
	"testing"
	"time"

	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		FirstName:    "Test",
		LastName:     "Buyer",
		Email:        "buyer@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:    "Ceramic mug",
		Price:   24.00,
		OwnerID: user.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	return cartService, testDB, user, product
}

func TestCartService_GetUserCart_Empty(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	_, err := cartService.GetUserCart(user.ID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCartService_GetUserCart(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, product.Name, items[0].Product.Name)
	assert.Equal(t, user.FirstName, items[0].Product.Owner.FirstName)
}

func TestCartService_AddToCart_MergesQuantities(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 3))

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	var count int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartService_AddToCart_RejectsZeroAndNegativeQuantity(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	assert.ErrorIs(t, cartService.AddToCart(user.ID, product.ID, 0), ErrInvalidInput)
	assert.ErrorIs(t, cartService.AddToCart(user.ID, product.ID, -1), ErrInvalidInput)

	// Rejected adds must leave the cart untouched.
	_, err := cartService.GetUserCart(user.ID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCartService_AddToCart_RejectsMissingProductID(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	assert.ErrorIs(t, cartService.AddToCart(user.ID, 0, 1), ErrInvalidInput)
}

func TestCartService_AddToCart_ProductNotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	assert.ErrorIs(t, cartService.AddToCart(user.ID, 9999, 1), ErrProductNotFound)
}

func TestCartService_AddToCart_Concurrent(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = cartService.AddToCart(user.ID, product.ID, 1)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	// Concurrent adds for the same pair end as one row with the summed
	// quantity, never as duplicate rows.
	var count int64
	testDB.Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", user.ID, product.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, n, items[0].Quantity)
}

func TestCartService_UpdateCartItem_Success(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)

	updated, err := cartService.UpdateCartItem(user.ID, items[0].ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	items, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestCartService_UpdateCartItem_InvalidQuantity(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)

	_, err = cartService.UpdateCartItem(user.ID, items[0].ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// The row keeps its previous quantity.
	items, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_UpdateCartItem_NotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	_, err := cartService.UpdateCartItem(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateCartItem_OtherUsersRow(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	other := &model.User{
		FirstName: "Other", LastName: "Buyer",
		Email: "other@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)

	// Another user's row is indistinguishable from a missing one.
	_, err = cartService.UpdateCartItem(other.ID, items[0].ID, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	items, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestCartService_RemoveFromCart(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)

	require.NoError(t, cartService.RemoveFromCart(user.ID, items[0].ID))

	_, err = cartService.GetUserCart(user.ID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCartService_RemoveFromCart_NotFound(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	assert.ErrorIs(t, cartService.RemoveFromCart(user.ID, 9999), ErrCartItemNotFound)
}

func TestCartService_RemoveFromCart_OtherUsersRow(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	other := &model.User{
		FirstName: "Other", LastName: "Buyer",
		Email: "other@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, cartService.RemoveFromCart(other.ID, items[0].ID), ErrCartItemNotFound)

	items, err = cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartService_Checkout_ClearsCart(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	second := &model.Product{Name: "Tote bag", Price: 32.00, OwnerID: user.ID}
	require.NoError(t, testDB.Create(second).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	require.NoError(t, cartService.AddToCart(user.ID, second.ID, 1))

	require.NoError(t, cartService.Checkout(user.ID))

	_, err := cartService.GetUserCart(user.ID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCartService_Checkout_EmptyCart(t *testing.T) {
	cartService, _, user, _ := setupCartServiceTest(t)

	assert.ErrorIs(t, cartService.Checkout(user.ID), ErrCartEmpty)
}

func TestCartService_Checkout_DoesNotTouchOtherCarts(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	other := &model.User{
		FirstName: "Other", LastName: "Buyer",
		Email: "other@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 2))
	require.NoError(t, cartService.AddToCart(other.ID, product.ID, 4))

	require.NoError(t, cartService.Checkout(user.ID))

	items, err := cartService.GetUserCart(other.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCartService_PurgeStale(t *testing.T) {
	cartService, testDB, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 1))

	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, testDB.Model(&model.CartItem{}).
		Where("user_id = ?", user.ID).
		Update("updated_at", old).Error)

	purged, err := cartService.PurgeStale(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = cartService.GetUserCart(user.ID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestCartService_PurgeStale_KeepsFreshRows(t *testing.T) {
	cartService, _, user, product := setupCartServiceTest(t)

	require.NoError(t, cartService.AddToCart(user.ID, product.ID, 1))

	purged, err := cartService.PurgeStale(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(0), purged)

	items, err := cartService.GetUserCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
