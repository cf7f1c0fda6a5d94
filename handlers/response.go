package handlers

import (
	"errors"
	"net/http"

	"reguguard-backend/extract"
	"reguguard-backend/repository"
	"reguguard-backend/service"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps service and collaborator errors to HTTP responses
func respondServiceError(c *gin.Context, err error) {
	var notSOP *service.NotSOPError
	switch {
	case errors.As(err, &notSOP):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_SOP",
				"message": notSOP.Error(),
				"details": notSOP.Classification,
			},
		})
	case errors.Is(err, extract.ErrUnsupportedFileType):
		respondError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE", err.Error())
	case errors.Is(err, extract.ErrEmptyDocument):
		respondError(c, http.StatusUnprocessableEntity, "EMPTY_DOCUMENT", err.Error())
	case errors.Is(err, repository.ErrAnalysisNotFound):
		respondError(c, http.StatusNotFound, "ANALYSIS_NOT_FOUND", "Analysis not found")
	case errors.Is(err, service.ErrFindingNotFound):
		respondError(c, http.StatusNotFound, "FINDING_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrInvalidAction):
		respondError(c, http.StatusBadRequest, "INVALID_ACTION", err.Error())
	case errors.Is(err, service.ErrUnsupportedFormat):
		respondError(c, http.StatusBadRequest, "UNSUPPORTED_FORMAT", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
