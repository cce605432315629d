package router

import (
	"assessmate.app/casenote/internal/http/handler"
	"assessmate.app/casenote/internal/service"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	LLMConfigured bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	healthHandler := handler.NewHealthHandler(cfg.LLMConfigured)
	router.GET("/health", healthHandler.Get)

	api := router.Group("/api")
	{
		assessmentHandler := handler.NewAssessmentHandler(services.Analysis(), services.CaseNotes())
		AssessmentRouter(api, assessmentHandler)
	}
}
