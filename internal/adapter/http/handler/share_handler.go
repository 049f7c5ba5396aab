package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	. "todohub/internal/adapter/http/helper"
	. "todohub/internal/adapter/http/validation"
	"todohub/internal/core/model/request"
	"todohub/internal/core/service"
	"todohub/pkg/auth"
	"todohub/pkg/metrics"
)

type ShareHandler struct {
	sharing *service.SharingService
	logger  zerolog.Logger
	metrics *metrics.AppMetrics
}

func NewShareHandler(sharing *service.SharingService, logger zerolog.Logger, m *metrics.AppMetrics) *ShareHandler {
	return &ShareHandler{
		sharing: sharing,
		logger:  logger.With().Str("handler", "share").Logger(),
		metrics: m,
	}
}

func (h *ShareHandler) Share(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.ShareTodoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	req.TodoID = todoID

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	data, err := h.sharing.Share(c.Request.Context(), req, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordShareOperation("share")
	}

	SendSuccess(c, http.StatusCreated, data)
}

func (h *ShareHandler) ListShares(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.sharing.ListShares(c.Request.Context(), todoID, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *ShareHandler) UpdatePermission(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	sharedWithUserID, ok := pathID(c, "userId")

	if !ok {
		return
	}

	var req request.UpdateSharePermissionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	err := h.sharing.UpdatePermission(c.Request.Context(), todoID, sharedWithUserID, req, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordShareOperation("update_permission")
	}

	SendSuccess(c, http.StatusOK, nil, "Permission updated")
}

func (h *ShareHandler) Unshare(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	sharedWithUserID, ok := pathID(c, "userId")

	if !ok {
		return
	}

	err := h.sharing.Unshare(c.Request.Context(), todoID, sharedWithUserID, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordShareOperation("unshare")
	}

	c.Status(http.StatusNoContent)
}

func (h *ShareHandler) SharedWithMe(c *gin.Context) {
	data, err := h.sharing.ListSharedWithMe(c.Request.Context(), auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *ShareHandler) ListActivity(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.sharing.ListActivity(c.Request.Context(), todoID, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}
