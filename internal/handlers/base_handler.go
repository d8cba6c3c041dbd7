package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/registry-service/internal/formsession"
	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/schema"
	"github.com/campus-suite/registry-service/internal/utils"
	"github.com/campus-suite/registry-service/internal/validator"
)

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Message string            `json:"message"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SuccessResponse wraps write operations that return no record
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.FromContext(c, h.logger).Error(msg, append(args, "error", err)...)
}

// ===== ERROR HANDLING =====

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var rejected *validator.RejectedError
	var fieldErr *recordstore.FieldValidationError

	// Map service errors to HTTP status codes
	switch {
	case errors.As(err, &rejected):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Fields:  rejected.Fields,
		})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Record rejected by store",
			Details: fieldErr.Error(),
			Fields:  map[string]string{fieldErr.Field: fieldErr.Message},
		})
	case errors.As(err, new(*schema.InvalidNumericError)):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid numeric value",
			Details: err.Error(),
		})
	case errors.Is(err, recordstore.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, recordstore.ErrInvalidID):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid identifier",
			Details: err.Error(),
		})
	case errors.Is(err, recordstore.ErrRemoteFailure):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Record store unavailable",
		})
	case errors.Is(err, formsession.ErrNotOpen):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Form session is not open",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
