package controller

import (
	"strconv"

	apperrors "github.com/NPNKhoa/CT250-backend-sub000/internal/errors"
	"github.com/NPNKhoa/CT250-backend-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
)

// requireUserID returns the authenticated user or writes a 401.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Unauthenticated request reached protected handler", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// parseIDParam reads a positive uint path parameter or writes a 400.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid id parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// respondBindError reports validator failures per field and anything else
// (malformed JSON, wrong types) as a plain invalid-input error.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	if fields := apperrors.BindingFields(err); fields != nil {
		apperrors.RespondWithValidationError(c, fields)
		return
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
}

// respondServiceError writes err and logs it at a level matching its kind.
func respondServiceError(c *gin.Context, msg string, err error, fields map[string]interface{}) {
	log := middleware.GetLoggerFromContext(c)
	if _, ok := apperrors.AsAppError(err); ok {
		if fields == nil {
			fields = map[string]interface{}{}
		}
		fields["error"] = err.Error()
		log.Warn(msg, fields)
	} else {
		log.Error(msg, err, fields)
	}
	apperrors.Respond(c, err)
}
