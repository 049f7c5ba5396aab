package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	. "todohub/internal/adapter/http/helper"
	. "todohub/internal/adapter/http/validation"
	"todohub/internal/core/model/request"
	"todohub/internal/core/service"
)

type AuthHandler struct {
	users  *service.UserService
	logger zerolog.Logger
}

func NewAuthHandler(users *service.UserService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		logger: logger.With().Str("handler", "auth").Logger(),
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req request.SignUpRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	data, err := h.users.SignUp(c.Request.Context(), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, data)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	data, err := h.users.Login(c.Request.Context(), req)

	if err != nil {
		h.logger.Info().Err(err).Msg("login rejected")
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	data, err := h.users.Refresh(c.Request.Context(), req.RefreshToken)

	if err != nil {
		h.logger.Info().Err(err).Msg("refresh rejected")
		SendUnauthorizedError(c, "Invalid or expired refresh token")
		return
	}

	SendSuccess(c, http.StatusOK, data)
}
