package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	. "todohub/internal/adapter/http/helper"
	. "todohub/internal/adapter/http/validation"
	"todohub/internal/core/model/request"
	"todohub/internal/core/service"
	"todohub/pkg/auth"
)

type PresetHandler struct {
	presets *service.PresetService
}

func NewPresetHandler(presets *service.PresetService) *PresetHandler {
	return &PresetHandler{presets: presets}
}

func (h *PresetHandler) List(c *gin.Context) {
	data, err := h.presets.List(c.Request.Context(), auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *PresetHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.presets.Get(c.Request.Context(), id, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *PresetHandler) Create(c *gin.Context) {
	req, ok := bindPresetRequest(c)

	if !ok {
		return
	}

	data, err := h.presets.Create(c.Request.Context(), auth.CurrentUserID(c), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, data)
}

func (h *PresetHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	req, ok := bindPresetRequest(c)

	if !ok {
		return
	}

	data, err := h.presets.Update(c.Request.Context(), id, auth.CurrentUserID(c), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *PresetHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.presets.Delete(c.Request.Context(), id, auth.CurrentUserID(c)); err != nil {
		SendDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Apply replays the saved filter; page number and size come from the query.
func (h *PresetHandler) Apply(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	pageNumber, _ := strconv.Atoi(c.DefaultQuery("page_number", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	data, err := h.presets.Apply(c.Request.Context(), id, auth.CurrentUserID(c), pageNumber, pageSize)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func bindPresetRequest(c *gin.Context) (request.FilterPresetRequest, bool) {
	var req request.FilterPresetRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return req, false
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return req, false
	}

	return req, true
}
