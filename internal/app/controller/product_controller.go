package controller

import (
	"net/http"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/service"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProducts returns the catalog with current discounted prices
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	products, err := ctrl.productService.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, "Failed to list products", err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return
	}

	c.JSON(http.StatusOK, product)
}
