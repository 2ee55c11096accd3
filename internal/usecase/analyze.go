// Package usecase contains the interview analysis pipeline and read services.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// AnalyzeService runs the full analysis pipeline for one interview and
// persists the composite result exactly once. All collaborators are injected;
// the service holds no ambient state.
type AnalyzeService struct {
	Interviews domain.InterviewRepository
	Jobs       domain.JobRepository
	Analyses   domain.AnalysisRepository
	Gen        domain.TextGenerator
	// Timeout caps one pipeline run including every generation call.
	Timeout time.Duration
}

// NewAnalyzeService constructs the pipeline service.
func NewAnalyzeService(interviews domain.InterviewRepository, jobs domain.JobRepository, analyses domain.AnalysisRepository, gen domain.TextGenerator, timeout time.Duration) AnalyzeService {
	return AnalyzeService{Interviews: interviews, Jobs: jobs, Analyses: analyses, Gen: gen, Timeout: timeout}
}

// Analyze runs the pipeline:
//
//  1. Load interview, job, messages, and question bank; reject unknown
//     interviews and interviews that already have an analysis before any
//     generation work happens.
//  2. Run the four insight generators and the question sub-pipeline as one
//     concurrent batch under a join-all-or-fail policy: the first failure
//     cancels the batch and aborts the attempt with nothing persisted.
//  3. Synthesize the verdict strictly after the whole batch has resolved.
//  4. Persist parent and children in one transaction; the storage-level
//     unique constraint turns a lost duplicate race into ErrConflict.
//
// On success it returns the stored composite view.
func (s AnalyzeService) Analyze(ctx domain.Context, interviewID string) (domain.AnalysisRecord, error) {
	start := time.Now()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	iv, err := s.Interviews.Get(ctx, interviewID)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	exists, err := s.Analyses.ExistsForInterview(ctx, interviewID)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	if exists {
		return domain.AnalysisRecord{}, fmt.Errorf("analysis exists for interview %s: %w", interviewID, domain.ErrConflict)
	}
	job, err := s.Jobs.Get(ctx, iv.JobID)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	msgs, err := s.Interviews.ListMessages(ctx, interviewID)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}
	bank, err := s.Jobs.ListQuestionBank(ctx, job.ID)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	transcript := AssembleTranscript(job, msgs)
	slog.InfoContext(ctx, "analysis pipeline started",
		slog.String("interview_id", interviewID),
		slog.Int("messages", len(msgs)),
		slog.Int("bank_size", len(bank)))

	var (
		strengths  []domain.Strength
		concerns   []domain.Concern
		highlights []domain.Highlight
		alignment  domain.JobAlignment
		questions  []domain.QuestionAnalysis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		strengths, err = s.generateStrengths(gctx, transcript)
		return err
	})
	g.Go(func() error {
		var err error
		concerns, err = s.generateConcerns(gctx, transcript)
		return err
	})
	g.Go(func() error {
		var err error
		highlights, err = s.generateHighlights(gctx, transcript)
		return err
	})
	g.Go(func() error {
		var err error
		alignment, err = s.generateJobAlignment(gctx, transcript)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.analyzeQuestions(gctx, transcript, bank, job)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AnalysisRecord{}, err
	}

	verdict, err := s.synthesizeVerdict(ctx, transcript, strengths, concerns, alignment, questions)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	rec := domain.AnalysisRecord{
		Analysis: domain.Analysis{
			InterviewID:          interviewID,
			HiringVerdict:        verdict.HiringVerdict,
			VerdictSummary:       verdict.VerdictSummary,
			OverallMatchScore:    verdict.OverallMatchScore,
			ProcessingDurationMS: time.Since(start).Milliseconds(),
			ModelUsed:            s.Gen.ModelName(),
		},
		Strengths:    strengths,
		Concerns:     concerns,
		Highlights:   highlights,
		JobAlignment: alignment,
		Questions:    questions,
	}
	if _, err := s.Analyses.Create(ctx, rec); err != nil {
		return domain.AnalysisRecord{}, err
	}

	slog.InfoContext(ctx, "analysis pipeline completed",
		slog.String("interview_id", interviewID),
		slog.String("verdict", verdict.HiringVerdict),
		slog.Int("overall_match_score", verdict.OverallMatchScore),
		slog.Duration("duration", time.Since(start)))

	// Return the stored view so POST and subsequent GETs agree byte for byte.
	return s.Analyses.GetByInterviewID(ctx, interviewID)
}

// analyzeQuestions runs the question sub-pipeline: one extraction call, then
// a per-topic matcher+grader pair fanned out across topics. Result order
// follows extraction order. A topic with no bank match is still graded and
// kept with an empty question id; unmatched topics are data, not discards.
func (s AnalyzeService) analyzeQuestions(ctx domain.Context, transcript string, bank []domain.QuestionBankEntry, job domain.Job) ([]domain.QuestionAnalysis, error) {
	topics, err := s.extractTopics(ctx, transcript)
	if err != nil {
		return nil, err
	}
	results := make([]domain.QuestionAnalysis, len(topics))
	g, gctx := errgroup.WithContext(ctx)
	for i, topic := range topics {
		g.Go(func() error {
			var questionID, guideline string
			if matched := s.matchQuestion(gctx, topic.SynthesizedQuestion, bank); matched != nil {
				questionID = matched.ID
				guideline = matched.AnswerGuidelines
			}
			grade, err := s.gradeAnswer(gctx, topic, guideline, job)
			if err != nil {
				return err
			}
			results[i] = domain.QuestionAnalysis{
				QuestionID:         questionID,
				QuestionText:       topic.SynthesizedQuestion,
				AnswerSummary:      topic.SynthesizedAnswer,
				AnswerQualityScore: grade.AnswerQualityScore,
				KeyPoints:          grade.KeyPoints,
				Concerns:           grade.Concerns,
				ExamplesProvided:   grade.ExamplesProvided,
				DisplayOrder:       i,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
