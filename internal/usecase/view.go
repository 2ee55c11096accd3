package usecase

import (
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// AnalysisQueryService serves the stored composite analysis view.
type AnalysisQueryService struct {
	Analyses domain.AnalysisRepository
}

// NewAnalysisQueryService constructs the read service.
func NewAnalysisQueryService(analyses domain.AnalysisRepository) AnalysisQueryService {
	return AnalysisQueryService{Analyses: analyses}
}

// GetByInterviewID returns the composite view for an interview, or
// domain.ErrNotFound when no analysis exists.
func (s AnalysisQueryService) GetByInterviewID(ctx domain.Context, interviewID string) (domain.AnalysisRecord, error) {
	return s.Analyses.GetByInterviewID(ctx, interviewID)
}
