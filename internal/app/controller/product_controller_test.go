package controller

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/NPNKhoa/CT250-backend-sub000/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestProductController(t *testing.T) {
	env := setupControllerTest(t)
	monitor := env.createProduct(t, "Monitor", 200000, 20)
	env.createProduct(t, "Cable", 30000, 0)

	w := env.do(t, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeJSON(t, w)["count"])

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", monitor.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	assert.Equal(t, "Monitor", body["name"])
	assert.Equal(t, float64(20), body["discount_percent"])
	assert.Equal(t, float64(160000), body["discounted_price"])

	w = env.do(t, http.MethodGet, "/api/v1/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ProductNotFound, decodeJSON(t, w)["error"])

	w = env.do(t, http.MethodGet, "/api/v1/products/x", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
