package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// AnalysisRepo persists and loads the analysis aggregate: one parent row plus
// five child collections.
type AnalysisRepo struct{ Pool PgxPool }

// NewAnalysisRepo constructs an AnalysisRepo with the given pool.
func NewAnalysisRepo(p PgxPool) *AnalysisRepo { return &AnalysisRepo{Pool: p} }

const uniqueViolation = "23505"

// Create inserts the parent analysis and all child collections in one
// transaction. The UNIQUE constraint on interview_id makes the insert an
// atomic insert-if-absent: a concurrent create for the same interview loses
// the race and surfaces domain.ErrConflict.
func (r *AnalysisRepo) Create(ctx domain.Context, rec domain.AnalysisRecord) (string, error) {
	tracer := otel.Tracer("repo.analyses")
	ctx, span := tracer.Start(ctx, "analyses.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "analyses"),
	)

	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("op=analysis.create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := rec.Analysis.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO analyses (id, interview_id, hiring_verdict, verdict_summary, overall_match_score, processing_duration_ms, model_used, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = tx.Exec(ctx, q, id, rec.Analysis.InterviewID, rec.Analysis.HiringVerdict, rec.Analysis.VerdictSummary,
		rec.Analysis.OverallMatchScore, rec.Analysis.ProcessingDurationMS, rec.Analysis.ModelUsed, time.Now().UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("op=analysis.create: %w: analysis exists for interview %s", domain.ErrConflict, rec.Analysis.InterviewID)
		}
		return "", fmt.Errorf("op=analysis.create: %w", err)
	}

	for i, s := range rec.Strengths {
		q := `INSERT INTO analysis_strengths (id, analysis_id, title, evidence, relevance, display_order) VALUES ($1,$2,$3,$4,$5,$6)`
		if _, err := tx.Exec(ctx, q, uuid.New().String(), id, s.Title, s.Evidence, s.Relevance, i); err != nil {
			return "", fmt.Errorf("op=analysis.create_strength: %w", err)
		}
	}
	for i, c := range rec.Concerns {
		q := `INSERT INTO analysis_concerns (id, analysis_id, title, description, evidence, impact, severity, display_order) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
		if _, err := tx.Exec(ctx, q, uuid.New().String(), id, c.Title, c.Description, c.Evidence, c.Impact, c.Severity, i); err != nil {
			return "", fmt.Errorf("op=analysis.create_concern: %w", err)
		}
	}
	for i, h := range rec.Highlights {
		q := `INSERT INTO analysis_highlights (id, analysis_id, highlight_type, quote, context, timestamp_seconds, display_order) VALUES ($1,$2,$3,$4,$5,$6,$7)`
		if _, err := tx.Exec(ctx, q, uuid.New().String(), id, h.HighlightType, h.Quote, h.Context, h.TimestampSeconds, i); err != nil {
			return "", fmt.Errorf("op=analysis.create_highlight: %w", err)
		}
	}
	{
		q := `INSERT INTO analysis_job_alignment (id, analysis_id, matched_requirements, missing_requirements, exceeded_requirements) VALUES ($1,$2,$3,$4,$5)`
		ja := rec.JobAlignment
		if _, err := tx.Exec(ctx, q, uuid.New().String(), id, ja.MatchedRequirements, ja.MissingRequirements, ja.ExceededRequirements); err != nil {
			return "", fmt.Errorf("op=analysis.create_job_alignment: %w", err)
		}
	}
	for i, qa := range rec.Questions {
		q := `INSERT INTO analysis_questions (id, analysis_id, question_id, question_text, answer_summary, answer_quality_score, key_points, concerns, examples_provided, display_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
		var questionID *string
		if qa.QuestionID != "" {
			qid := qa.QuestionID
			questionID = &qid
		}
		if _, err := tx.Exec(ctx, q, uuid.New().String(), id, questionID, qa.QuestionText, qa.AnswerSummary,
			qa.AnswerQualityScore, qa.KeyPoints, qa.Concerns, qa.ExamplesProvided, i); err != nil {
			return "", fmt.Errorf("op=analysis.create_question: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("op=analysis.create: %w", err)
	}
	return id, nil
}

// ExistsForInterview reports whether an analysis row exists for the interview.
func (r *AnalysisRepo) ExistsForInterview(ctx domain.Context, interviewID string) (bool, error) {
	tracer := otel.Tracer("repo.analyses")
	ctx, span := tracer.Start(ctx, "analyses.ExistsForInterview")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "analyses"),
	)
	q := `SELECT EXISTS(SELECT 1 FROM analyses WHERE interview_id=$1)`
	var exists bool
	if err := r.Pool.QueryRow(ctx, q, interviewID).Scan(&exists); err != nil {
		return false, fmt.Errorf("op=analysis.exists: %w", err)
	}
	return exists, nil
}

// GetByInterviewID loads the composite view: parent plus all children, each
// ordered by display order. Returns domain.ErrNotFound when no analysis
// exists for the interview.
func (r *AnalysisRepo) GetByInterviewID(ctx domain.Context, interviewID string) (domain.AnalysisRecord, error) {
	tracer := otel.Tracer("repo.analyses")
	ctx, span := tracer.Start(ctx, "analyses.GetByInterviewID")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "analyses"),
	)

	var rec domain.AnalysisRecord
	q := `SELECT id, interview_id, hiring_verdict, verdict_summary, overall_match_score, processing_duration_ms, model_used, created_at
		FROM analyses WHERE interview_id=$1`
	row := r.Pool.QueryRow(ctx, q, interviewID)
	a := &rec.Analysis
	if err := row.Scan(&a.ID, &a.InterviewID, &a.HiringVerdict, &a.VerdictSummary, &a.OverallMatchScore, &a.ProcessingDurationMS, &a.ModelUsed, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AnalysisRecord{}, fmt.Errorf("op=analysis.get: %w: analysis for interview %s", domain.ErrNotFound, interviewID)
		}
		return domain.AnalysisRecord{}, fmt.Errorf("op=analysis.get: %w", err)
	}

	if err := r.loadStrengths(ctx, &rec); err != nil {
		return domain.AnalysisRecord{}, err
	}
	if err := r.loadConcerns(ctx, &rec); err != nil {
		return domain.AnalysisRecord{}, err
	}
	if err := r.loadHighlights(ctx, &rec); err != nil {
		return domain.AnalysisRecord{}, err
	}
	if err := r.loadJobAlignment(ctx, &rec); err != nil {
		return domain.AnalysisRecord{}, err
	}
	if err := r.loadQuestions(ctx, &rec); err != nil {
		return domain.AnalysisRecord{}, err
	}
	return rec, nil
}

func (r *AnalysisRepo) loadStrengths(ctx domain.Context, rec *domain.AnalysisRecord) error {
	q := `SELECT title, evidence, relevance, display_order FROM analysis_strengths WHERE analysis_id=$1 ORDER BY display_order ASC`
	rows, err := r.Pool.Query(ctx, q, rec.Analysis.ID)
	if err != nil {
		return fmt.Errorf("op=analysis.load_strengths: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.Strength
		if err := rows.Scan(&s.Title, &s.Evidence, &s.Relevance, &s.DisplayOrder); err != nil {
			return fmt.Errorf("op=analysis.load_strengths: %w", err)
		}
		rec.Strengths = append(rec.Strengths, s)
	}
	return rows.Err()
}

func (r *AnalysisRepo) loadConcerns(ctx domain.Context, rec *domain.AnalysisRecord) error {
	q := `SELECT title, description, evidence, impact, severity, display_order FROM analysis_concerns WHERE analysis_id=$1 ORDER BY display_order ASC`
	rows, err := r.Pool.Query(ctx, q, rec.Analysis.ID)
	if err != nil {
		return fmt.Errorf("op=analysis.load_concerns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.Concern
		if err := rows.Scan(&c.Title, &c.Description, &c.Evidence, &c.Impact, &c.Severity, &c.DisplayOrder); err != nil {
			return fmt.Errorf("op=analysis.load_concerns: %w", err)
		}
		rec.Concerns = append(rec.Concerns, c)
	}
	return rows.Err()
}

func (r *AnalysisRepo) loadHighlights(ctx domain.Context, rec *domain.AnalysisRecord) error {
	q := `SELECT highlight_type, quote, context, timestamp_seconds, display_order FROM analysis_highlights WHERE analysis_id=$1 ORDER BY display_order ASC`
	rows, err := r.Pool.Query(ctx, q, rec.Analysis.ID)
	if err != nil {
		return fmt.Errorf("op=analysis.load_highlights: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h domain.Highlight
		if err := rows.Scan(&h.HighlightType, &h.Quote, &h.Context, &h.TimestampSeconds, &h.DisplayOrder); err != nil {
			return fmt.Errorf("op=analysis.load_highlights: %w", err)
		}
		rec.Highlights = append(rec.Highlights, h)
	}
	return rows.Err()
}

func (r *AnalysisRepo) loadJobAlignment(ctx domain.Context, rec *domain.AnalysisRecord) error {
	q := `SELECT matched_requirements, missing_requirements, exceeded_requirements FROM analysis_job_alignment WHERE analysis_id=$1`
	row := r.Pool.QueryRow(ctx, q, rec.Analysis.ID)
	ja := &rec.JobAlignment
	if err := row.Scan(&ja.MatchedRequirements, &ja.MissingRequirements, &ja.ExceededRequirements); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("op=analysis.load_job_alignment: %w", err)
	}
	return nil
}

func (r *AnalysisRepo) loadQuestions(ctx domain.Context, rec *domain.AnalysisRecord) error {
	q := `SELECT question_id, question_text, answer_summary, answer_quality_score, key_points, concerns, examples_provided, display_order
		FROM analysis_questions WHERE analysis_id=$1 ORDER BY display_order ASC`
	rows, err := r.Pool.Query(ctx, q, rec.Analysis.ID)
	if err != nil {
		return fmt.Errorf("op=analysis.load_questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var qa domain.QuestionAnalysis
		var questionID *string
		if err := rows.Scan(&questionID, &qa.QuestionText, &qa.AnswerSummary, &qa.AnswerQualityScore, &qa.KeyPoints, &qa.Concerns, &qa.ExamplesProvided, &qa.DisplayOrder); err != nil {
			return fmt.Errorf("op=analysis.load_questions: %w", err)
		}
		if questionID != nil {
			qa.QuestionID = *questionID
		}
		rec.Questions = append(rec.Questions, qa)
	}
	return rows.Err()
}
