package router

import (
	"assessmate.app/casenote/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func AssessmentRouter(router *gin.RouterGroup, h *handler.AssessmentHandler) {
	router.POST("/analyze-observations", h.AnalyzeObservations)
	router.POST("/generate-case-note", h.GenerateCaseNote)
}
