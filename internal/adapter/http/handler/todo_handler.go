package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	. "todohub/internal/adapter/http/helper"
	. "todohub/internal/adapter/http/validation"
	"todohub/internal/core/model/request"
	"todohub/internal/core/model/response"
	"todohub/internal/core/service"
	"todohub/pkg/auth"
	"todohub/pkg/metrics"
)

type TodoHandler struct {
	todos   *service.TodoService
	logger  zerolog.Logger
	metrics *metrics.AppMetrics
}

func NewTodoHandler(todos *service.TodoService, logger zerolog.Logger, m *metrics.AppMetrics) *TodoHandler {
	return &TodoHandler{
		todos:   todos,
		logger:  logger.With().Str("handler", "todo").Logger(),
		metrics: m,
	}
}

// List is the plain listing; the composed filters live on Search.
func (h *TodoHandler) List(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	sortBy := c.Query("sort_by")

	var priority *int

	if raw := c.Query("priority"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			SendBadRequestError(c, "priority", "priority must be an integer")
			return
		}
		priority = &value
	}

	data, err := h.todos.List(c.Request.Context(), userID, sortBy, priority)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

// Search accepts the filter as query string on GET and as a JSON body on
// POST; both forms feed the same composition.
func (h *TodoHandler) Search(c *gin.Context) {
	var filter request.SearchFilterRequest

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&filter); err != nil {
			SendBadRequestError(c, "request", "Invalid request body")
			return
		}
	} else {
		if err := c.ShouldBindQuery(&filter); err != nil {
			SendBadRequestError(c, "request", "Invalid query parameters")
			return
		}
	}

	data, err := h.todos.Search(c.Request.Context(), auth.CurrentUserID(c), filter)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) Get(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.todos.Get(c.Request.Context(), todoID, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) Create(c *gin.Context) {
	var req request.CreateTodoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	data, err := h.todos.Create(c.Request.Context(), auth.CurrentUserID(c), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTodoOperation("create")
	}

	SendSuccess(c, http.StatusCreated, data)
}

func (h *TodoHandler) Update(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.UpdateTodoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	data, err := h.todos.Update(c.Request.Context(), todoID, auth.CurrentUserID(c), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTodoOperation("update")
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.todos.Delete(c.Request.Context(), todoID, auth.CurrentUserID(c)); err != nil {
		SendDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTodoOperation("delete")
	}

	c.Status(http.StatusNoContent)
}

func (h *TodoHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.todos.ListByCategory(c.Request.Context(), auth.CurrentUserID(c), categoryID)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) ListByTag(c *gin.Context) {
	tagID, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.todos.ListByTag(c.Request.Context(), auth.CurrentUserID(c), tagID)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) Statistics(c *gin.Context) {
	data, err := h.todos.Statistics(c.Request.Context(), auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *TodoHandler) BulkComplete(c *gin.Context) {
	var req request.BulkTodoRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	count, err := h.todos.BulkMarkComplete(c.Request.Context(), auth.CurrentUserID(c), req)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTodoOperation("bulk_complete")
	}

	SendSuccess(c, http.StatusOK, response.BulkResponse{UpdatedCount: count})
}

func (h *TodoHandler) Reorder(c *gin.Context) {
	var req request.ReorderTodosRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	if err := h.todos.Reorder(c.Request.Context(), auth.CurrentUserID(c), req); err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, nil, "Todos reordered")
}

func (h *TodoHandler) ArchiveOld(c *gin.Context) {
	var req request.ArchiveOldRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	count, err := h.todos.ArchiveOldCompleted(c.Request.Context(), auth.CurrentUserID(c), req.DaysOld)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTodoOperation("archive_old")
	}

	SendSuccess(c, http.StatusOK, response.BulkResponse{UpdatedCount: count})
}

// pathID parses a numeric path segment, replying 400 itself when malformed.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))

	if err != nil || id <= 0 {
		SendBadRequestError(c, name, "must be a positive integer")
		return 0, false
	}

	return id, true
}
