package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "todohub/internal/adapter/http/helper"
	. "todohub/internal/adapter/http/validation"
	"todohub/internal/core/model/request"
	"todohub/internal/core/service"
	"todohub/pkg/auth"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(c *gin.Context) {
	data, err := h.users.Get(c.Request.Context(), auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	data, err := h.users.UpdateProfile(c.Request.Context(), auth.CurrentUserID(c), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *UserHandler) UpdateTheme(c *gin.Context) {
	var req request.ThemePreferenceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	data, err := h.users.UpdateTheme(c.Request.Context(), auth.CurrentUserID(c), req.Theme)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}
