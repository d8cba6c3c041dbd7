package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/registry-service/internal/services"
	"github.com/campus-suite/registry-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	service services.ReportService
}

func NewReportHandler(service services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== REPORT ENDPOINTS =====

func (h *ReportHandler) GetOverview(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard overview")

	stats, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) GetAnalytics(c *gin.Context) {
	h.LogRequest(c, "Getting analytics report")

	report, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetSchedule(c *gin.Context) {
	h.LogRequest(c, "Getting weekly schedule")

	week, err := h.service.WeeklySchedule(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, week)
}

// ExportWorkbook streams the registry as an xlsx attachment.
func (h *ReportHandler) ExportWorkbook(c *gin.Context) {
	h.LogRequest(c, "Exporting registry workbook")

	data, err := h.service.ExportWorkbook(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("registry-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
