package postgres

import (
	"context"
	"fmt"
)

// schema creates all tables used by the service. Statements are idempotent so
// startup can run them unconditionally. The UNIQUE constraint on
// analyses.interview_id is the storage-level guarantee that at most one
// analysis exists per interview, closing the race that an application-level
// existence check alone would leave open.
const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	company_description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS question_bank (
	id TEXT PRIMARY KEY,
	job_id TEXT NOT NULL REFERENCES jobs(id),
	question TEXT NOT NULL,
	answer_guidelines TEXT NOT NULL DEFAULT '',
	order_index INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS interviews (
	id TEXT PRIMARY KEY,
	job_id TEXT NOT NULL REFERENCES jobs(id),
	status TEXT NOT NULL DEFAULT 'completed',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS interview_messages (
	id TEXT PRIMARY KEY,
	interview_id TEXT NOT NULL REFERENCES interviews(id),
	role TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	interview_id TEXT NOT NULL UNIQUE REFERENCES interviews(id),
	hiring_verdict TEXT NOT NULL,
	verdict_summary TEXT NOT NULL,
	overall_match_score INT NOT NULL,
	processing_duration_ms BIGINT NOT NULL,
	model_used TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS analysis_strengths (
	id TEXT PRIMARY KEY,
	analysis_id TEXT NOT NULL REFERENCES analyses(id),
	title TEXT NOT NULL,
	evidence TEXT NOT NULL,
	relevance TEXT NOT NULL,
	display_order INT NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_concerns (
	id TEXT PRIMARY KEY,
	analysis_id TEXT NOT NULL REFERENCES analyses(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	evidence TEXT NOT NULL DEFAULT '',
	impact TEXT NOT NULL,
	severity TEXT NOT NULL,
	display_order INT NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_highlights (
	id TEXT PRIMARY KEY,
	analysis_id TEXT NOT NULL REFERENCES analyses(id),
	highlight_type TEXT NOT NULL,
	quote TEXT NOT NULL,
	context TEXT NOT NULL,
	timestamp_seconds DOUBLE PRECISION,
	display_order INT NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_job_alignment (
	id TEXT PRIMARY KEY,
	analysis_id TEXT NOT NULL UNIQUE REFERENCES analyses(id),
	matched_requirements TEXT[] NOT NULL DEFAULT '{}',
	missing_requirements TEXT[] NOT NULL DEFAULT '{}',
	exceeded_requirements TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS analysis_questions (
	id TEXT PRIMARY KEY,
	analysis_id TEXT NOT NULL REFERENCES analyses(id),
	question_id TEXT,
	question_text TEXT NOT NULL,
	answer_summary TEXT NOT NULL,
	answer_quality_score INT NOT NULL,
	key_points TEXT[] NOT NULL DEFAULT '{}',
	concerns TEXT[] NOT NULL DEFAULT '{}',
	examples_provided TEXT[] NOT NULL DEFAULT '{}',
	display_order INT NOT NULL
);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool PgxPool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("op=postgres.migrate: %w", err)
	}
	return nil
}
