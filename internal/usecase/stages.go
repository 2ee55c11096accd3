package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// generateInto runs one generation call and decodes the JSON object into out.
// A failed call surfaces as ErrGenerationFailed; undecodable output as
// ErrSchemaInvalid. No retries at this level.
func (s AnalyzeService) generateInto(ctx domain.Context, systemPrompt, userPrompt string, out any) error {
	raw, err := s.Gen.GenerateJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		if errors.Is(err, domain.ErrGenerationFailed) || errors.Is(err, domain.ErrSchemaInvalid) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return nil
}

type groupedTopicsResponse struct {
	GroupedTopics []domain.GroupedQA `json:"grouped_topics"`
}

// extractTopics segments the transcript into synthesized topics. Topic
// granularity is entirely delegated to the generator; no local merging or
// deduplication happens here. Every topic must carry at least one original
// segment.
func (s AnalyzeService) extractTopics(ctx domain.Context, transcript string) ([]domain.GroupedQA, error) {
	var resp groupedTopicsResponse
	if err := s.generateInto(ctx, extractSystemPrompt, extractPrompt(transcript), &resp); err != nil {
		return nil, fmt.Errorf("op=extract_topics: %w", err)
	}
	for i, t := range resp.GroupedTopics {
		if t.SynthesizedQuestion == "" || t.SynthesizedAnswer == "" {
			return nil, fmt.Errorf("op=extract_topics: %w: topic %d missing synthesized text", domain.ErrSchemaInvalid, i)
		}
		if len(t.OriginalSegments) < 1 {
			return nil, fmt.Errorf("op=extract_topics: %w: topic %d has no original segments", domain.ErrSchemaInvalid, i)
		}
	}
	return resp.GroupedTopics, nil
}

type matchResponse struct {
	MatchedQuestionID *string `json:"matched_question_id"`
}

// matchQuestion returns the bank entry whose core topic best matches the
// synthesized question, or nil. An empty bank short-circuits without a
// generation call. This is the one stage designed to fail soft: a failed call
// or an unresolvable id degrades to no match instead of aborting the run.
func (s AnalyzeService) matchQuestion(ctx domain.Context, synthesizedQuestion string, bank []domain.QuestionBankEntry) *domain.QuestionBankEntry {
	if len(bank) == 0 {
		return nil
	}
	var resp matchResponse
	if err := s.generateInto(ctx, matchSystemPrompt, matchPrompt(synthesizedQuestion, bank), &resp); err != nil {
		slog.WarnContext(ctx, "question matching failed, treating as no match", slog.Any("error", err))
		return nil
	}
	if resp.MatchedQuestionID == nil {
		return nil
	}
	for i := range bank {
		if bank[i].ID == *resp.MatchedQuestionID {
			return &bank[i]
		}
	}
	slog.WarnContext(ctx, "matched question id not in bank, treating as no match",
		slog.String("matched_question_id", *resp.MatchedQuestionID))
	return nil
}

type gradeResponse struct {
	AnswerQualityScore int      `json:"answer_quality_score"`
	KeyPoints          []string `json:"key_points"`
	Concerns           []string `json:"concerns"`
	ExamplesProvided   []string `json:"examples_provided"`
}

// gradeAnswer scores one synthesized topic. With a guideline the grade is
// conformance to that guideline; without one it is relevance and quality
// against the job description. The two branches are different instructions to
// the generator, not a different formula.
func (s AnalyzeService) gradeAnswer(ctx domain.Context, qa domain.GroupedQA, guideline string, job domain.Job) (gradeResponse, error) {
	var resp gradeResponse
	if err := s.generateInto(ctx, gradeSystemPrompt, gradePrompt(qa, guideline, job), &resp); err != nil {
		return gradeResponse{}, fmt.Errorf("op=grade_answer: %w", err)
	}
	if resp.AnswerQualityScore < 0 || resp.AnswerQualityScore > 100 {
		return gradeResponse{}, fmt.Errorf("op=grade_answer: %w: answer_quality_score %d out of range", domain.ErrSchemaInvalid, resp.AnswerQualityScore)
	}
	return resp, nil
}
