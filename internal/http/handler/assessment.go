package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"assessmate.app/casenote/internal/http/dto"
	"assessmate.app/casenote/internal/model"
	"assessmate.app/casenote/internal/service"
	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	analysisService service.AnalysisService
	caseNoteService service.CaseNoteService
}

func NewAssessmentHandler(analysisService service.AnalysisService, caseNoteService service.CaseNoteService) *AssessmentHandler {
	return &AssessmentHandler{
		analysisService: analysisService,
		caseNoteService: caseNoteService,
	}
}

func (h *AssessmentHandler) AnalyzeObservations(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AnalyzeObservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.analysisService.Analyze(ctx, req.Observations)
	if err != nil {
		respondError(c, err, "failed to analyze observations")
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalyzeObservationsResponse(result.Analysis, result.ProcessingTime))
}

func (h *AssessmentHandler) GenerateCaseNote(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateCaseNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.caseNoteService.Generate(ctx, req.Observations, req.Metadata)
	if err != nil {
		respondError(c, err, "failed to generate case note")
		return
	}

	c.JSON(http.StatusOK, dto.ToGenerateCaseNoteResponse(result.CaseNote, result.ProcessingTime))
}

// respondError maps validation failures to 400 and everything else to 500.
func respondError(c *gin.Context, err error, action string) {
	_ = c.Error(err)

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ve.Message})
		return
	}

	var upstream *model.UpstreamError
	if errors.As(err, &upstream) {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: action + ": " + upstream.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: action})
}
