package handler

import (
	"net/http"
	"time"

	"assessmate.app/casenote/internal/http/dto"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	llmConfigured bool
	now           func() time.Time
}

// NewHealthHandler reports credential presence only; it never calls the model.
func NewHealthHandler(llmConfigured bool) *HealthHandler {
	return &HealthHandler{llmConfigured: llmConfigured, now: time.Now}
}

func (h *HealthHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:        "ok",
		LLMConfigured: h.llmConfigured,
		Timestamp:     h.now().UTC(),
	})
}
