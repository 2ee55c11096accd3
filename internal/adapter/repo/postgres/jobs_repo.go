package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// JobRepo loads jobs and their predefined question banks.
type JobRepo struct{ Pool PgxPool }

// NewJobRepo constructs a JobRepo with the given pool.
func NewJobRepo(p PgxPool) *JobRepo { return &JobRepo{Pool: p} }

// Get loads a job by id. Returns domain.ErrNotFound when absent.
func (r *JobRepo) Get(ctx domain.Context, id string) (domain.Job, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "jobs"),
	)
	q := `SELECT id, title, description, company_name, company_description, created_at FROM jobs WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var j domain.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.CompanyName, &j.CompanyDescription, &j.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, fmt.Errorf("op=job.get: %w: job %s", domain.ErrNotFound, id)
		}
		return domain.Job{}, fmt.Errorf("op=job.get: %w", err)
	}
	return j, nil
}

// ListQuestionBank returns the job's predefined questions in configured order.
// An empty bank is a normal state, not an error.
func (r *JobRepo) ListQuestionBank(ctx domain.Context, jobID string) ([]domain.QuestionBankEntry, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.ListQuestionBank")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "question_bank"),
	)
	q := `SELECT id, question, answer_guidelines FROM question_bank WHERE job_id=$1 ORDER BY order_index ASC`
	rows, err := r.Pool.Query(ctx, q, jobID)
	if err != nil {
		return nil, fmt.Errorf("op=job.list_question_bank: %w", err)
	}
	defer rows.Close()
	var entries []domain.QuestionBankEntry
	for rows.Next() {
		var e domain.QuestionBankEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.AnswerGuidelines); err != nil {
			return nil, fmt.Errorf("op=job.list_question_bank: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=job.list_question_bank: %w", err)
	}
	return entries, nil
}
