package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	resp := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		resp.Message = message[0]
	}

	c.JSON(statusCode, resp)
}

func SendError(c *gin.Context, statusCode int, code string, errs []response.ValidationError) {
	c.JSON(statusCode, response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errs,
		},
	})
}

func SendValidationError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.FormatValidationErrors(err))
}

func SendFieldError(c *gin.Context, statusCode int, code, field, message string) {
	SendError(c, statusCode, code, []response.ValidationError{
		{Field: field, Message: message},
	})
}

// SendDomainError maps the error taxonomy to wire statuses. Unrecognized
// errors become an opaque 500 so storage detail never leaks to the client.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		SendFieldError(c, http.StatusConflict, "DUPLICATE_EMAIL", "email", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendFieldError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "auth", err.Error())
	case errors.Is(err, domain.ErrTokenExpired):
		SendFieldError(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "auth", err.Error())
	case errors.Is(err, domain.ErrTokenInvalid):
		SendFieldError(c, http.StatusUnauthorized, "TOKEN_INVALID", "auth", err.Error())
	case errors.Is(err, domain.ErrAccountInactive):
		SendFieldError(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "auth", err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		SendFieldError(c, http.StatusUnauthorized, "TOKEN_INVALID", "auth", domain.ErrTokenInvalid.Error())
	case errors.Is(err, domain.ErrNotFound):
		SendFieldError(c, http.StatusNotFound, "NOT_FOUND", "resource", err.Error())
	default:
		SendFieldError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "server", "internal server error")
	}
}
