package handlers

import (
	"github.com/gin-gonic/gin"
)

// NewRouter registers every route. admin guards the destructive history routes.
func NewRouter(analysis *AnalysisHandler, history *HistoryHandler, admin gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		api.GET("/sources", analysis.ListSources)
		api.POST("/classify", analysis.Classify)
		api.POST("/compare", analysis.Compare)

		api.POST("/analyses", analysis.CreateAnalysis)
		api.GET("/analyses", history.ListAnalyses)
		api.GET("/analyses/:id", history.GetAnalysis)
		api.DELETE("/analyses/:id", admin, history.DeleteAnalysis)
		api.DELETE("/analyses", admin, history.ClearAnalyses)

		api.POST("/analyses/:id/feedback", history.SubmitFeedback)
		api.GET("/analyses/:id/feedback", history.ListFeedback)
		api.GET("/analyses/:id/export", history.ExportAnalysis)
	}

	return r
}
