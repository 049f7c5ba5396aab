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

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Create(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.CreateCommentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	req.TodoID = todoID

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	data, err := h.comments.Create(c.Request.Context(), req, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, data)
}

func (h *CommentHandler) ListByTodo(c *gin.Context) {
	todoID, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.comments.ListByTodo(c.Request.Context(), todoID, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *CommentHandler) Get(c *gin.Context) {
	commentID, ok := pathID(c, "id")

	if !ok {
		return
	}

	data, err := h.comments.Get(c.Request.Context(), commentID, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathID(c, "id")

	if !ok {
		return
	}

	var req request.UpdateCommentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := Validator.Struct(req); err != nil {
		SendValidationError(c, err)
		return
	}

	data, err := h.comments.Update(c.Request.Context(), commentID, req, auth.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, data)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "id")

	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), commentID, auth.CurrentUserID(c)); err != nil {
		SendDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
