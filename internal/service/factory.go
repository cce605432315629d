package service

import (
	"assessmate.app/casenote/internal/llm"
	"assessmate.app/casenote/internal/store"
)

type Services struct {
	gateway          llm.Gateway
	stores           *store.Stores
	analysisLabels   CallLabels
	generationLabels CallLabels
}

func NewServices(gateway llm.Gateway, stores *store.Stores, analysisLabels, generationLabels CallLabels) *Services {
	return &Services{
		gateway:          gateway,
		stores:           stores,
		analysisLabels:   analysisLabels,
		generationLabels: generationLabels,
	}
}

func (s *Services) Analysis() AnalysisService {
	return NewAnalysisService(s.gateway, s.stores.LLMUsage(), s.analysisLabels)
}

func (s *Services) CaseNotes() CaseNoteService {
	return NewCaseNoteService(s.gateway, s.stores.LLMUsage(), s.generationLabels)
}
