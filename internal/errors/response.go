package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard failure body
type ErrorResponse struct {
	Error   string `json:"error"`   // error code, see codes.go
	Message string `json:"message"` // human-readable message
}

// RespondWithError writes a failure body with the given status and code
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Respond maps err to a response. AppErrors keep their code and message,
// anything else becomes a generic 500 so internals never leak.
func Respond(c *gin.Context, err error) {
	if appErr, ok := AsAppError(err); ok {
		RespondWithError(c, appErr.Kind.Status(), appErr.Code, appErr.Message)
		return
	}
	InternalError(c, "")
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Insufficient permissions"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationErrorResponse carries per-field binding failures
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:   ValidationInvalidInput,
		Message: "Invalid request data",
		Fields:  fields,
	})
}
