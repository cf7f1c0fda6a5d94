package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"reguguard-backend/compare"
	"reguguard-backend/scraper"
	"reguguard-backend/service"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler handles HTTP requests for document analysis
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	maxFileSize     int64
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService, maxFileSize int64) *AnalysisHandler {
	if maxFileSize <= 0 {
		maxFileSize = 20 * 1024 * 1024 // 20MB
	}
	return &AnalysisHandler{
		analysisService: analysisService,
		maxFileSize:     maxFileSize,
	}
}

// ListSources handles GET /api/sources
func (h *AnalysisHandler) ListSources(c *gin.Context) {
	domain := c.Query("domain")
	domainOnly, err := boolParam(c.Query("domain_only"), false)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "domain_only must be a boolean")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"domain":  domain,
		"groups":  scraper.SourceGroups(domain),
		"sources": scraper.Sources(domain, domainOnly),
		"domains": h.analysisService.Domains(),
	})
}

// ClassifyTextRequest represents the JSON body of POST /api/classify
type ClassifyTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// Classify handles POST /api/classify with either a multipart file or a JSON body
func (h *AnalysisHandler) Classify(c *gin.Context) {
	var req service.AnalyzeRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var ok bool
		if req, ok = h.readUpload(c); !ok {
			return
		}
	} else {
		var body ClassifyTextRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		req.Text = body.Text
	}

	result, err := h.analysisService.Classify(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// CreateAnalysis handles POST /api/analyses
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	req, ok := h.readUpload(c)
	if !ok {
		return
	}

	var err error
	req.Domain = c.PostForm("domain")
	if req.DomainOnly, err = boolParam(c.PostForm("domain_only"), false); err == nil {
		if req.UseAI, err = boolParam(c.PostForm("use_ai"), true); err == nil {
			if req.Force, err = boolParam(c.PostForm("force"), false); err == nil {
				req.Offline, err = boolParam(c.PostForm("offline"), false)
			}
		}
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, result)
}

// CompareRequest represents the body of POST /api/compare
type CompareRequest struct {
	AIText    string `json:"ai_text" binding:"required"`
	HumanText string `json:"human_text" binding:"required"`
}

// Compare handles POST /api/compare
func (h *AnalysisHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	respondOK(c, http.StatusOK, compare.Compare(req.AIText, req.HumanText))
}

// readUpload reads the "file" form field, or the "text" field when no file is sent
func (h *AnalysisHandler) readUpload(c *gin.Context) (service.AnalyzeRequest, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if text := c.PostForm("text"); strings.TrimSpace(text) != "" {
			return service.AnalyzeRequest{Text: text}, true
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return service.AnalyzeRequest{}, false
	}

	if fileHeader.Size > h.maxFileSize {
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
		return service.AnalyzeRequest{}, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_READ_ERROR", "Failed to read file")
		return service.AnalyzeRequest{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_READ_ERROR", "Failed to read file")
		return service.AnalyzeRequest{}, false
	}
	return service.AnalyzeRequest{Data: data, Filename: fileHeader.Filename}, true
}

func boolParam(v string, fallback bool) (bool, error) {
	if strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", v)
	}
	return b, nil
}
