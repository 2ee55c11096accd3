// Package postgres provides PostgreSQL database adapters.
//
// It implements repository interfaces for data persistence.
// The package provides type-safe database operations with
// connection pooling and transaction support.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// InterviewRepo loads interviews and their message logs.
type InterviewRepo struct{ Pool PgxPool }

// NewInterviewRepo constructs an InterviewRepo with the given pool.
func NewInterviewRepo(p PgxPool) *InterviewRepo { return &InterviewRepo{Pool: p} }

// Get loads an interview by id. Returns domain.ErrNotFound when absent.
func (r *InterviewRepo) Get(ctx domain.Context, id string) (domain.Interview, error) {
	tracer := otel.Tracer("repo.interviews")
	ctx, span := tracer.Start(ctx, "interviews.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "interviews"),
	)
	q := `SELECT id, job_id, status, created_at FROM interviews WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var iv domain.Interview
	if err := row.Scan(&iv.ID, &iv.JobID, &iv.Status, &iv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Interview{}, fmt.Errorf("op=interview.get: %w: interview %s", domain.ErrNotFound, id)
		}
		return domain.Interview{}, fmt.Errorf("op=interview.get: %w", err)
	}
	return iv, nil
}

// ListMessages returns the interview's messages in chronological order.
func (r *InterviewRepo) ListMessages(ctx domain.Context, interviewID string) ([]domain.Message, error) {
	tracer := otel.Tracer("repo.interviews")
	ctx, span := tracer.Start(ctx, "interviews.ListMessages")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "interview_messages"),
	)
	q := `SELECT id, interview_id, role, text, created_at FROM interview_messages WHERE interview_id=$1 ORDER BY created_at ASC`
	rows, err := r.Pool.Query(ctx, q, interviewID)
	if err != nil {
		return nil, fmt.Errorf("op=interview.list_messages: %w", err)
	}
	defer rows.Close()
	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.InterviewID, &m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=interview.list_messages: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=interview.list_messages: %w", err)
	}
	return msgs, nil
}
