package controller

import (
	"net/http"
	"strings"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/service"
	apperrors "github.com/NPNKhoa/CT250-backend-sub000/internal/errors"
	"github.com/gin-gonic/gin"
)

type VoucherController struct {
	voucherService service.VoucherService
}

func NewVoucherController(voucherService service.VoucherService) *VoucherController {
	return &VoucherController{
		voucherService: voucherService,
	}
}

// ListPublishing returns public vouchers that can still be collected
// GET /api/v1/vouchers/publishing
func (ctrl *VoucherController) ListPublishing(c *gin.Context) {
	vouchers, err := ctrl.voucherService.ListPublishing(c.Request.Context())
	if err != nil {
		respondServiceError(c, "Failed to list publishing vouchers", err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vouchers": vouchers,
		"count":    len(vouchers),
	})
}

// GetByCode looks a voucher up by its code
// GET /api/v1/vouchers/code/:code
func (ctrl *VoucherController) GetByCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Voucher code is required")
		return
	}

	voucher, err := ctrl.voucherService.GetByCode(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, "Failed to fetch voucher", err, map[string]interface{}{
			"code": code,
		})
		return
	}

	c.JSON(http.StatusOK, voucher)
}

// ListMine returns the vouchers the user has collected
// GET /api/v1/vouchers/me
func (ctrl *VoucherController) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	collections, err := ctrl.voucherService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "Failed to list user vouchers", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vouchers": collections,
		"count":    len(collections),
	})
}

// Collect claims a voucher for the user
// POST /api/v1/vouchers/:id/collect
func (ctrl *VoucherController) Collect(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	voucherID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	uv, err := ctrl.voucherService.Collect(c.Request.Context(), userID, voucherID)
	if err != nil {
		// the service already logged the outcome
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, uv)
}
