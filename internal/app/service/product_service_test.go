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

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	productService := NewProductService(productRepo)

	owner := &model.User{
		FirstName:    "Alice",
		LastName:     "Turner",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(owner).Error)

	return productService, testDB, owner
}

func TestProductService_CreateAndGet(t *testing.T) {
	productService, _, owner := setupProductServiceTest(t)

	created, err := productService.CreateProduct(owner.ID, "Ceramic mug", 24.00, "Stoneware mug", "previews/mug.jpg")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	fetched, err := productService.GetProductByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ceramic mug", fetched.Name)
	assert.Equal(t, owner.ID, fetched.OwnerID)
}

func TestProductService_CreateProduct_Invalid(t *testing.T) {
	productService, _, owner := setupProductServiceTest(t)

	_, err := productService.CreateProduct(owner.ID, "", 24.00, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = productService.CreateProduct(owner.ID, "Mug", 0, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	_, err := productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_GetAllProducts(t *testing.T) {
	productService, _, owner := setupProductServiceTest(t)

	_, err := productService.CreateProduct(owner.ID, "Mug", 24.00, "", "")
	require.NoError(t, err)
	_, err = productService.CreateProduct(owner.ID, "Tote", 32.00, "", "")
	require.NoError(t, err)

	products, err := productService.GetAllProducts()
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestProductService_UpdateProduct_OwnerOnly(t *testing.T) {
	productService, testDB, owner := setupProductServiceTest(t)

	other := &model.User{
		FirstName: "Bruno", LastName: "Keller",
		Email: "bruno@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	created, err := productService.CreateProduct(owner.ID, "Mug", 24.00, "", "")
	require.NoError(t, err)

	_, err = productService.UpdateProduct(other.ID, created.ID, "Stolen mug", 1.00, "", "")
	assert.ErrorIs(t, err, ErrNotProductOwner)

	updated, err := productService.UpdateProduct(owner.ID, created.ID, "Big mug", 28.00, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Big mug", updated.Name)
	assert.Equal(t, 28.00, updated.Price)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, testDB, owner := setupProductServiceTest(t)

	other := &model.User{
		FirstName: "Bruno", LastName: "Keller",
		Email: "bruno@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	created, err := productService.CreateProduct(owner.ID, "Mug", 24.00, "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, productService.DeleteProduct(other.ID, created.ID), ErrNotProductOwner)

	require.NoError(t, productService.DeleteProduct(owner.ID, created.ID))

	_, err = productService.GetProductByID(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_RemovesReferencingRows(t *testing.T) {
	productService, testDB, owner := setupProductServiceTest(t)

	buyer := &model.User{
		FirstName: "Chloe", LastName: "Navarro",
		Email: "chloe@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(buyer).Error)

	created, err := productService.CreateProduct(owner.ID, "Walnut board", 58.00, "", "")
	require.NoError(t, err)

	require.NoError(t, testDB.Create(&model.CartItem{
		UserID: buyer.ID, ProductID: created.ID, Quantity: 2,
	}).Error)
	require.NoError(t, testDB.Create(&model.Favorite{
		UserID: buyer.ID, ProductID: created.ID,
	}).Error)
	require.NoError(t, testDB.Create(&model.Review{
		UserID: buyer.ID, ProductID: created.ID, Rating: 5, Body: "Great board",
	}).Error)

	require.NoError(t, productService.DeleteProduct(owner.ID, created.ID))

	var count int64
	require.NoError(t, testDB.Model(&model.CartItem{}).Where("product_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, testDB.Model(&model.Favorite{}).Where("product_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, testDB.Model(&model.Review{}).Where("product_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	productService, _, owner := setupProductServiceTest(t)

	assert.ErrorIs(t, productService.DeleteProduct(owner.ID, 9999), ErrProductNotFound)
}
