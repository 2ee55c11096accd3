package usecase

import (
	"fmt"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

type verdictResponse struct {
	HiringVerdict     string `json:"hiring_verdict"`
	VerdictSummary    string `json:"verdict_summary"`
	OverallMatchScore int    `json:"overall_match_score"`
}

// synthesizeVerdict produces the final hiring recommendation. It runs only
// after the full insight batch and every question sub-pipeline have resolved,
// so the verdict is grounded in all structured output rather than the raw
// transcript alone.
func (s AnalyzeService) synthesizeVerdict(ctx domain.Context, transcript string, strengths []domain.Strength, concerns []domain.Concern, alignment domain.JobAlignment, questions []domain.QuestionAnalysis) (verdictResponse, error) {
	var resp verdictResponse
	prompt := verdictPrompt(transcript, strengths, concerns, alignment, questions)
	if err := s.generateInto(ctx, "", prompt, &resp); err != nil {
		return verdictResponse{}, fmt.Errorf("op=synthesize_verdict: %w", err)
	}
	if !domain.ValidVerdict(resp.HiringVerdict) {
		return verdictResponse{}, fmt.Errorf("op=synthesize_verdict: %w: hiring_verdict %q", domain.ErrSchemaInvalid, resp.HiringVerdict)
	}
	if resp.OverallMatchScore < 0 || resp.OverallMatchScore > 100 {
		return verdictResponse{}, fmt.Errorf("op=synthesize_verdict: %w: overall_match_score %d out of range", domain.ErrSchemaInvalid, resp.OverallMatchScore)
	}
	if resp.VerdictSummary == "" {
		return verdictResponse{}, fmt.Errorf("op=synthesize_verdict: %w: empty verdict_summary", domain.ErrSchemaInvalid)
	}
	return resp, nil
}
