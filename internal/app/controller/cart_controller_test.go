package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/makersmarket/makersmarket-backend/internal/app/model"
	"github.com/makersmarket/makersmarket-backend/internal/app/repository"
	"github.com/makersmarket/makersmarket-backend/internal/app/service"
	"github.com/makersmarket/makersmarket-backend/internal/db"
	"github.com/makersmarket/makersmarket-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	cartController := NewCartController(cartService)

	user := &model.User{
		FirstName:    "Alice",
		LastName:     "Turner",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:         "Ceramic mug",
		Price:        24.00,
		Description:  "Stoneware mug",
		PreviewImage: "previews/mug.jpg",
		OwnerID:      user.ID,
	}
	require.NoError(t, testDB.Create(product).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Stand-in for the auth middleware.
	authAs := func(userID uint) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
		}
	}

	router.GET("/cart", authAs(user.ID), cartController.GetCart)
	router.POST("/cart", authAs(user.ID), cartController.AddToCart)
	router.PUT("/cart/:id", authAs(user.ID), cartController.UpdateCartItem)
	router.DELETE("/cart/:id", authAs(user.ID), cartController.RemoveFromCart)
	router.POST("/cart/checkout", authAs(user.ID), cartController.Checkout)

	return router, testDB, user, product
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartController_GetCart_Empty(t *testing.T) {
	router, _, _, _ := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message": "Shopping cart is empty."}`, w.Body.String())
}

func TestCartController_AddToCart(t *testing.T) {
	router, _, _, product := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/cart", gin.H{
		"productId": product.ID,
		"quantity":  2,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message": "Item added to cart successfully"}`, w.Body.String())
}

func TestCartController_AddToCart_InvalidQuantity(t *testing.T) {
	router, _, _, product := setupCartControllerTest(t)

	for _, quantity := range []int{0, -1} {
		w := doJSON(t, router, http.MethodPost, "/cart", gin.H{
			"productId": product.ID,
			"quantity":  quantity,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message": "Invalid input data"}`, w.Body.String())
	}

	// Nothing was added.
	w := doJSON(t, router, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_AddToCart_MalformedBody(t *testing.T) {
	router, _, _, _ := setupCartControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader([]byte(`{"productId": "seven"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message": "Invalid input data"}`, w.Body.String())
}

func TestCartController_AddToCart_ProductNotFound(t *testing.T) {
	router, _, _, _ := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/cart", gin.H{
		"productId": 9999,
		"quantity":  1,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message": "Product not found"}`, w.Body.String())
}

func TestCartController_AddToCart_MergesIntoOneLine(t *testing.T) {
	router, _, user, product := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/cart", gin.H{
		"productId": product.ID,
		"quantity":  2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/cart", gin.H{
		"productId": product.ID,
		"quantity":  3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Cart []struct {
			ID        uint `json:"id"`
			UserID    uint `json:"userId"`
			ProductID uint `json:"productId"`
			Quantity  int  `json:"quantity"`
			Product   struct {
				Name         string  `json:"name"`
				Price        float64 `json:"price"`
				PreviewImage string  `json:"previewImage"`
				Owner        struct {
					FirstName string `json:"first_name"`
					LastName  string `json:"last_name"`
				} `json:"owner"`
			} `json:"product"`
		} `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Cart, 1)
	line := response.Cart[0]
	assert.Equal(t, user.ID, line.UserID)
	assert.Equal(t, product.ID, line.ProductID)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, "Ceramic mug", line.Product.Name)
	assert.Equal(t, 24.00, line.Product.Price)
	assert.Equal(t, "previews/mug.jpg", line.Product.PreviewImage)
	assert.Equal(t, "Alice", line.Product.Owner.FirstName)
	assert.Equal(t, "Turner", line.Product.Owner.LastName)
}

func TestCartController_UpdateCartItem(t *testing.T) {
	router, testDB, user, product := setupCartControllerTest(t)

	item := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, testDB.Create(item).Error)

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), gin.H{
		"quantity": 7,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Item struct {
			ID        uint `json:"id"`
			UserID    uint `json:"userId"`
			ProductID uint `json:"productId"`
			Quantity  int  `json:"quantity"`
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, item.ID, response.Item.ID)
	assert.Equal(t, 7, response.Item.Quantity)
}

func TestCartController_UpdateCartItem_InvalidQuantity(t *testing.T) {
	router, testDB, user, product := setupCartControllerTest(t)

	item := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, testDB.Create(item).Error)

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), gin.H{
		"quantity": 0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message": "Quantity must be greater than 0"}`, w.Body.String())
}

func TestCartController_UpdateCartItem_NotFound(t *testing.T) {
	router, _, _, _ := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPut, "/cart/9999", gin.H{
		"quantity": 1,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message": "Item not found"}`, w.Body.String())
}

func TestCartController_UpdateCartItem_OtherUsersRow(t *testing.T) {
	router, testDB, _, product := setupCartControllerTest(t)

	other := &model.User{
		FirstName: "Bruno", LastName: "Keller",
		Email: "bruno@example.com", PasswordHash: "hash",
	}
	require.NoError(t, testDB.Create(other).Error)

	item := &model.CartItem{UserID: other.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, testDB.Create(item).Error)

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/cart/%d", item.ID), gin.H{
		"quantity": 5,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message": "Item not found"}`, w.Body.String())
}

func TestCartController_RemoveFromCart(t *testing.T) {
	router, testDB, user, product := setupCartControllerTest(t)

	item := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, testDB.Create(item).Error)

	w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/cart/%d", item.ID), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Item removed from cart"}`, w.Body.String())
}

func TestCartController_RemoveFromCart_NotFound(t *testing.T) {
	router, _, _, _ := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodDelete, "/cart/9999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message": "Item not found"}`, w.Body.String())
}

func TestCartController_Checkout(t *testing.T) {
	router, testDB, user, product := setupCartControllerTest(t)

	item := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, testDB.Create(item).Error)

	w := doJSON(t, router, http.MethodPost, "/cart/checkout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Transaction completed successfully"}`, w.Body.String())

	// The cart is now empty.
	w = doJSON(t, router, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message": "Shopping cart is empty."}`, w.Body.String())
}

func TestCartController_Checkout_EmptyCart(t *testing.T) {
	router, _, _, _ := setupCartControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/cart/checkout", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message": "Shopping cart is empty."}`, w.Body.String())
}
