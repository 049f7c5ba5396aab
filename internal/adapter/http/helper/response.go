package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todohub/internal/adapter/http/validation"
	"todohub/internal/core/domain"
	"todohub/internal/core/model/response"
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

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := validation.FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errors, details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", errors)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errors)
}

// SendDomainError maps the service error taxonomy onto HTTP statuses. Errors
// outside the taxonomy read as internal without leaking their message.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		SendNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		SendError(c, http.StatusForbidden, "FORBIDDEN", []response.ValidationError{
			{Field: "permission", Message: err.Error()},
		})
	case errors.Is(err, domain.ErrConflict):
		SendError(c, http.StatusConflict, "CONFLICT", []response.ValidationError{
			{Field: "resource", Message: err.Error()},
		})
	case errors.Is(err, domain.ErrInvalid):
		SendBadRequestError(c, "request", err.Error())
	default:
		SendInternalError(c, "Internal server error")
	}
}
