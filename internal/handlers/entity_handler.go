package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/registry-service/internal/services"
	"github.com/campus-suite/registry-service/internal/utils"
)

// EntityHandler serves the CRUD and list/search/page surface of one entity
// table. The same handler type covers all five tables; the service carries
// the table-specific behavior.
type EntityHandler struct {
	BaseHandler
	service services.EntityService
}

func NewEntityHandler(service services.EntityService, logger utils.Logger) *EntityHandler {
	return &EntityHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== ENTITY ENDPOINTS =====

func (h *EntityHandler) List(c *gin.Context) {
	h.LogRequest(c, "Listing records", "table", h.service.Table().Name)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	search := c.Query("search")

	result, err := h.service.List(c.Request.Context(), search, page, size)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EntityHandler) Get(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Getting record", "table", h.service.Table().Name, "id", id)

	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *EntityHandler) Create(c *gin.Context) {
	h.LogRequest(c, "Creating record", "table", h.service.Table().Name)

	var draft map[string]any
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	rec, err := h.service.Create(c.Request.Context(), draft)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *EntityHandler) Update(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Updating record", "table", h.service.Table().Name, "id", id)

	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	rec, err := h.service.Update(c.Request.Context(), id, changes)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *EntityHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Deleting record", "table", h.service.Table().Name, "id", id)

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Record deleted",
	})
}

// ListBy serves relationship routes such as /students/:id/grades: every
// record of this handler's table whose given display field references the
// path identity.
func (h *EntityHandler) ListBy(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		h.LogRequest(c, "Listing related records", "table", h.service.Table().Name, "field", field, "id", id)

		recs, err := h.service.ListBy(c.Request.Context(), field, id)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items": recs,
			"total": len(recs),
		})
	}
}
