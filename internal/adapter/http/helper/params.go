package helper

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// BindJSON decodes the request body into T.
func BindJSON[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		return params, err
	}

	return params, nil
}

// ParsePagination clamps limit to [1,100] (default 10) and offset to >= 0.
// Repositories receive these already clamped and never re-validate them.
func ParsePagination(c *gin.Context) (limit, offset int) {
	limit = defaultLimit

	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	if limit < 1 {
		limit = 1
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	offset = 0

	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	return limit, offset
}
