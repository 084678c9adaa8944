package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/internal/dto"
	"github.com/kindnest/kindnest-api/internal/middleware"
	"github.com/kindnest/kindnest-api/internal/service"
	"github.com/kindnest/kindnest-api/pkg/response"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req dto.CreateReportRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reports.Create(c.Request.Context(), middleware.CurrentUser(c), req.Type, req.UserID, req.PostID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"report": report})
}

func (h *ReportHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateReportRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.reports.Update(c.Request.Context(), id, req.Dismissed, req.Closed)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"report": report})
}

func (h *ReportHandler) OpenPostReports(c *gin.Context) {
	page, err := h.reports.OpenPostReports(c.Request.Context(), parsePage(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"page": page})
}

func (h *ReportHandler) OpenUserReports(c *gin.Context) {
	page, err := h.reports.OpenUserReports(c.Request.Context(), parsePage(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"page": page})
}
