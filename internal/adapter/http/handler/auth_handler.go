package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapi/internal/adapter/http/helper"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/internal/shared"
)

type AuthHandler struct {
	svc     port.AuthService
	metrics *shared.AppMetrics
}

func NewAuthHandler(svc port.AuthService, metrics *shared.AppMetrics) *AuthHandler {
	return &AuthHandler{svc: svc, metrics: metrics}
}

func (a *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := helper.BindJSON[request.RegisterRequest](c)

	if err != nil {
		helper.SendFieldError(c, http.StatusBadRequest, "BAD_REQUEST", "request", "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	auth, err := a.svc.Register(ctx, &params)

	if err != nil {
		a.metrics.RecordAuthOperation("register", "failure")
		helper.SendDomainError(c, err)
		return
	}

	a.metrics.RecordAuthOperation("register", "success")
	c.JSON(http.StatusCreated, auth)
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := helper.BindJSON[request.LoginRequest](c)

	if err != nil {
		helper.SendFieldError(c, http.StatusBadRequest, "BAD_REQUEST", "request", "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	auth, err := a.svc.Login(ctx, &params)

	if err != nil {
		a.metrics.RecordAuthOperation("login", "failure")
		helper.SendDomainError(c, err)
		return
	}

	a.metrics.RecordAuthOperation("login", "success")
	c.JSON(http.StatusOK, auth)
}

func (a *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)

	if !ok {
		helper.SendFieldError(c, http.StatusUnauthorized, "UNAUTHORIZED", "auth", "Unauthorized request")
		return
	}

	c.JSON(http.StatusOK, response.NewUserResponse(user))
}
