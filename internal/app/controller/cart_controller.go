package controller

import (
	"net/http"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/service"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartRequest struct {
	// 0 removes the line item
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// GetCart returns the user's cart with derived totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := ctrl.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddToCart adds a product, accumulating onto an existing line
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := ctrl.cartService.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, "Failed to add item to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
	c.JSON(http.StatusOK, view)
}

// UpdateCartItem sets a line item's quantity
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := ctrl.cartService.SetQuantity(c.Request.Context(), userID, lineID, *req.Quantity)
	if err != nil {
		respondServiceError(c, "Failed to update cart item", err, map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": lineID,
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// RemoveFromCart deletes a line item
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.cartService.RemoveItem(c.Request.Context(), userID, lineID)
	if err != nil {
		respondServiceError(c, "Failed to remove cart item", err, map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": lineID,
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.Clear(c.Request.Context(), userID); err != nil {
		respondServiceError(c, "Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}
