package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/app/service"
	apperrors "github.com/NPNKhoa/CT250-backend-sub000/internal/errors"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/middleware"
	"github.com/NPNKhoa/CT250-backend-sub000/pkg/payment/vnpay"
	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	paymentService service.PaymentService
	successURL     string
}

// NewPaymentController wires the VNPay callbacks. successURL is where the
// browser lands after a confirmed payment.
func NewPaymentController(paymentService service.PaymentService, successURL string) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		successURL:     successURL,
	}
}

// ReturnErrorResponse is the body of a failed browser return
type ReturnErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	VnpCode string `json:"vnp_Code"`
}

// VNPayReturn verifies the browser redirect from the gateway
// GET /api/v1/payments/vnpay/return
func (ctrl *PaymentController) VNPayReturn(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.paymentService.VerifyReturn(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		status, body := returnFailure(err)
		if status >= http.StatusInternalServerError {
			log.Error("Payment return failed", err)
		} else {
			log.Warn("Payment return rejected", map[string]interface{}{
				"error":    body.Error,
				"vnp_code": body.VnpCode,
			})
		}
		c.JSON(status, body)
		return
	}

	log.Info("Payment return verified", map[string]interface{}{
		"order_id": result.Order.ID,
		"replayed": result.Replayed,
	})
	c.Redirect(http.StatusFound, ctrl.redirectURL(result.Order.ID))
}

func (ctrl *PaymentController) redirectURL(orderID uint) string {
	u, err := url.Parse(ctrl.successURL)
	if err != nil {
		return ctrl.successURL
	}
	q := u.Query()
	q.Set("orderId", strconv.FormatUint(uint64(orderID), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func returnFailure(err error) (int, ReturnErrorResponse) {
	var declined *vnpay.DeclinedError
	switch {
	case errors.Is(err, vnpay.ErrInvalidSignature):
		return http.StatusBadRequest, ReturnErrorResponse{
			Error:   apperrors.PaymentInvalidSignature,
			Message: "Invalid payment signature",
			VnpCode: vnpay.RspInvalidSignature,
		}
	case errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound, ReturnErrorResponse{
			Error:   apperrors.OrderNotFound,
			Message: "Order not found",
			VnpCode: vnpay.RspOrderNotFound,
		}
	case errors.As(err, &declined):
		return http.StatusBadRequest, ReturnErrorResponse{
			Error:   apperrors.PaymentDeclined,
			Message: "Payment was not completed",
			VnpCode: declined.Code,
		}
	case errors.Is(err, service.ErrOrderCancelled):
		return http.StatusConflict, ReturnErrorResponse{
			Error:   apperrors.OrderCancelled,
			Message: "Order has been cancelled",
			VnpCode: vnpay.RspAlreadyConfirmed,
		}
	case errors.Is(err, vnpay.ErrAmountMismatch):
		return http.StatusBadRequest, ReturnErrorResponse{
			Error:   apperrors.PaymentAmountMismatch,
			Message: "Paid amount does not match the order total",
			VnpCode: vnpay.RspInvalidAmount,
		}
	default:
		return http.StatusInternalServerError, ReturnErrorResponse{
			Error:   apperrors.InternalServerError,
			Message: "Internal server error, please try again later",
			VnpCode: vnpay.RspUnknownError,
		}
	}
}

// VNPayIPN is the gateway's server-to-server notification. It always
// answers 200; the outcome travels in RspCode.
// GET /api/v1/payments/vnpay/ipn
func (ctrl *PaymentController) VNPayIPN(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	result, err := ctrl.paymentService.VerifyReturn(c.Request.Context(), c.Request.URL.Query())
	resp := ipnResponse(result, err)

	fields := map[string]interface{}{
		"txn_ref":  c.Query("vnp_TxnRef"),
		"rsp_code": resp.RspCode,
	}
	if resp.RspCode == vnpay.RspUnknownError {
		log.Error("Payment IPN failed", err, fields)
	} else {
		log.Info("Payment IPN handled", fields)
	}
	c.JSON(http.StatusOK, resp)
}

func ipnResponse(result *service.PaymentResult, err error) vnpay.IPNResponse {
	var declined *vnpay.DeclinedError
	switch {
	case err == nil && result.Replayed:
		return vnpay.IPNResponse{RspCode: vnpay.RspAlreadyConfirmed, Message: "Order already confirmed"}
	case err == nil:
		return vnpay.IPNResponse{RspCode: vnpay.RspConfirmed, Message: "Confirm Success"}
	case errors.As(err, &declined):
		// acknowledged; the order stays unpaid
		return vnpay.IPNResponse{RspCode: vnpay.RspConfirmed, Message: "Confirm Success"}
	case errors.Is(err, vnpay.ErrInvalidSignature):
		return vnpay.IPNResponse{RspCode: vnpay.RspInvalidSignature, Message: "Invalid signature"}
	case errors.Is(err, service.ErrOrderNotFound):
		return vnpay.IPNResponse{RspCode: vnpay.RspOrderNotFound, Message: "Order not found"}
	case errors.Is(err, service.ErrOrderCancelled):
		// final for this order; a retry cannot succeed
		return vnpay.IPNResponse{RspCode: vnpay.RspAlreadyConfirmed, Message: "Order cancelled"}
	case errors.Is(err, vnpay.ErrAmountMismatch):
		return vnpay.IPNResponse{RspCode: vnpay.RspInvalidAmount, Message: "Invalid amount"}
	default:
		return vnpay.IPNResponse{RspCode: vnpay.RspUnknownError, Message: "Unknown error"}
	}
}
