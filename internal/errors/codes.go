package errors

// Error codes returned in the "error" field of every failure response.
// Format: CATEGORY_SPECIFIC_DETAIL. The frontend maps these to messages.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // login required
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // token expired
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // malformed or forged token

	// ==================== AUTHZ_ ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // role not allowed
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // no role in context

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== CART_ ====================
	CartNotFound         = "CART_NOT_FOUND"
	CartItemNotFound     = "CART_ITEM_NOT_FOUND"
	CartInvalidQuantity  = "CART_INVALID_QUANTITY"
	CartItemsNotSelected = "CART_ITEMS_NOT_IN_CART"
	CartBusy             = "CART_BUSY" // lock wait timed out

	// ==================== PRODUCT_ ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// ==================== VOUCHER_ ====================
	VoucherNotFound         = "VOUCHER_NOT_FOUND"
	VoucherExpired          = "VOUCHER_EXPIRED"
	VoucherExhausted        = "VOUCHER_EXHAUSTED"
	VoucherCapReached       = "VOUCHER_USAGE_CAP_REACHED"
	VoucherAlreadyCollected = "VOUCHER_ALREADY_COLLECTED"
	VoucherNotCollected     = "VOUCHER_NOT_COLLECTED"
	VoucherAlreadyUsed      = "VOUCHER_ALREADY_USED"
	VoucherNotStarted       = "VOUCHER_NOT_STARTED"

	// ==================== ORDER_ ====================
	OrderNotFound             = "ORDER_NOT_FOUND"
	OrderInvalidPaymentMethod = "ORDER_INVALID_PAYMENT_METHOD"
	OrderInvalidStatus        = "ORDER_INVALID_STATUS"
	OrderAlreadyPaid          = "ORDER_ALREADY_PAID"
	OrderNotOnlinePayment     = "ORDER_NOT_ONLINE_PAYMENT"
	OrderCancelled            = "ORDER_CANCELLED"

	// ==================== PAYMENT_ ====================
	PaymentInvalidSignature = "PAYMENT_INVALID_SIGNATURE"
	PaymentDeclined         = "PAYMENT_DECLINED"
	PaymentAmountMismatch   = "PAYMENT_AMOUNT_MISMATCH"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
