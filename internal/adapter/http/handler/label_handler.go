package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "todohub/internal/adapter/http/helper"
	. "todohub/internal/adapter/http/validation"
	"todohub/internal/core/model/request"
	"todohub/internal/core/service"
)

// LabelHandler serves both vocabularies; the routes decide which methods hit
// categories and which hit tags.
type LabelHandler struct {
	labels *service.LabelService
}

func NewLabelHandler(labels *service.LabelService) *LabelHandler {
	return &LabelHandler{labels: labels}
}

func (h *LabelHandler) ListCategories(c *gin.Context) {
	data, err := h.labels.ListCategories(c.Request.Context())

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *LabelHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.labels.GetCategory(c.Request.Context(), id)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *LabelHandler) CreateCategory(c *gin.Context) {
	req, ok := bindLabelRequest(c)

	if !ok {
		return
	}

	data, err := h.labels.CreateCategory(c.Request.Context(), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, data)
}

func (h *LabelHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.UpdateLabelRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	data, err := h.labels.UpdateCategory(c.Request.Context(), id, req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *LabelHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.labels.DeleteCategory(c.Request.Context(), id); err != nil {
		SendDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *LabelHandler) ListTags(c *gin.Context) {
	data, err := h.labels.ListTags(c.Request.Context())

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *LabelHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.labels.GetTag(c.Request.Context(), id)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *LabelHandler) CreateTag(c *gin.Context) {
	req, ok := bindLabelRequest(c)

	if !ok {
		return
	}

	data, err := h.labels.CreateTag(c.Request.Context(), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, data)
}

func (h *LabelHandler) UpdateTag(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.UpdateLabelRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	data, err := h.labels.UpdateTag(c.Request.Context(), id, req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *LabelHandler) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.labels.DeleteTag(c.Request.Context(), id); err != nil {
		SendDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bindLabelRequest(c *gin.Context) (request.LabelRequest, bool) {
	var req request.LabelRequest

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
