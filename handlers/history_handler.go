package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"reguguard-backend/models"
	"reguguard-backend/service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler handles HTTP requests for stored analyses, feedback and exports
type HistoryHandler struct {
	historyService *service.HistoryService
	reviewService  *service.ReviewService
	exportService  *service.ExportService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.HistoryService, reviewService *service.ReviewService, exportService *service.ExportService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		reviewService:  reviewService,
		exportService:  exportService,
	}
}

// ListAnalyses handles GET /api/analyses
func (h *HistoryHandler) ListAnalyses(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	summaries, err := h.historyService.List(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, summaries)
}

// GetAnalysis handles GET /api/analyses/:id
func (h *HistoryHandler) GetAnalysis(c *gin.Context) {
	entry, err := h.historyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, entry)
}

// DeleteAnalysis handles DELETE /api/analyses/:id
func (h *HistoryHandler) DeleteAnalysis(c *gin.Context) {
	id := c.Param("id")
	if err := h.historyService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": id})
}

// ClearAnalyses handles DELETE /api/analyses
func (h *HistoryHandler) ClearAnalyses(c *gin.Context) {
	if err := h.historyService.Clear(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"cleared": true})
}

// FeedbackRequest represents the body of POST /api/analyses/:id/feedback
type FeedbackRequest struct {
	Key              string `json:"key" binding:"required"`
	Action           string `json:"action" binding:"required"`
	EditedSuggestion string `json:"edited_suggestion"`
}

// SubmitFeedback handles POST /api/analyses/:id/feedback
func (h *HistoryHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	event, err := h.reviewService.Decide(c.Request.Context(), service.DecideRequest{
		AnalysisID:       c.Param("id"),
		Key:              req.Key,
		Action:           models.FeedbackAction(req.Action),
		EditedSuggestion: req.EditedSuggestion,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, event)
}

// ListFeedback handles GET /api/analyses/:id/feedback
func (h *HistoryHandler) ListFeedback(c *gin.Context) {
	events, err := h.reviewService.Events(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"events":    events,
		"approvals": service.OrderedApprovals(service.FoldApprovals(events)),
	})
}

// ExportAnalysis handles GET /api/analyses/:id/export
func (h *HistoryHandler) ExportAnalysis(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatXLSX)
	result, err := h.exportService.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
