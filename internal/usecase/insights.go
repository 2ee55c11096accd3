package usecase

import (
	"fmt"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// The four insight generators are independent single-call stages over the
// assembled transcript. They run concurrently with each other and with the
// question sub-pipeline.

const maxConcerns = 5
const maxHighlights = 6

type strengthsResponse struct {
	Strengths []domain.Strength `json:"strengths"`
}

// generateStrengths asks for exactly the top 3 job-relevant strengths. The
// cardinality is a soft contract on the request, not structurally enforced.
func (s AnalyzeService) generateStrengths(ctx domain.Context, transcript string) ([]domain.Strength, error) {
	var resp strengthsResponse
	if err := s.generateInto(ctx, "", strengthsPrompt(transcript), &resp); err != nil {
		return nil, fmt.Errorf("op=generate_strengths: %w", err)
	}
	return resp.Strengths, nil
}

type concernsResponse struct {
	Concerns []domain.Concern `json:"concerns"`
}

// generateConcerns asks for up to 5 severity-tagged concerns. An empty list
// is a valid outcome. Severity outside the fixed ordinal set is schema
// failure, not something to coerce.
func (s AnalyzeService) generateConcerns(ctx domain.Context, transcript string) ([]domain.Concern, error) {
	var resp concernsResponse
	if err := s.generateInto(ctx, "", concernsPrompt(transcript), &resp); err != nil {
		return nil, fmt.Errorf("op=generate_concerns: %w", err)
	}
	for i, c := range resp.Concerns {
		if !domain.ValidSeverity(c.Severity) {
			return nil, fmt.Errorf("op=generate_concerns: %w: concern %d has severity %q", domain.ErrSchemaInvalid, i, c.Severity)
		}
	}
	if len(resp.Concerns) > maxConcerns {
		resp.Concerns = resp.Concerns[:maxConcerns]
	}
	return resp.Concerns, nil
}

type highlightsResponse struct {
	Highlights []domain.Highlight `json:"highlights"`
}

// generateHighlights asks for up to 6 transcript highlights with an explicit
// instruction not to manufacture signal: an unremarkable interview yields few
// or zero highlights, and zero is not an error.
func (s AnalyzeService) generateHighlights(ctx domain.Context, transcript string) ([]domain.Highlight, error) {
	var resp highlightsResponse
	if err := s.generateInto(ctx, "", highlightsPrompt(transcript), &resp); err != nil {
		return nil, fmt.Errorf("op=generate_highlights: %w", err)
	}
	if len(resp.Highlights) > maxHighlights {
		resp.Highlights = resp.Highlights[:maxHighlights]
	}
	return resp.Highlights, nil
}

// generateJobAlignment maps the candidate against the job description into
// three unranked, uncapped string lists.
func (s AnalyzeService) generateJobAlignment(ctx domain.Context, transcript string) (domain.JobAlignment, error) {
	var resp domain.JobAlignment
	if err := s.generateInto(ctx, "", jobAlignmentPrompt(transcript), &resp); err != nil {
		return domain.JobAlignment{}, fmt.Errorf("op=generate_job_alignment: %w", err)
	}
	return resp, nil
}
