package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrGenerationFailed = errors.New("generation failed")
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrInternal         = errors.New("internal error")
)

// Message roles as stored on interview transcripts.
const (
	RoleCandidate   = "candidate"
	RoleInterviewer = "interviewer"
)

// Hiring verdict values. The synthesizer must return exactly one of these.
const (
	VerdictAdvance    = "ADVANCE"
	VerdictReject     = "REJECT"
	VerdictBorderline = "BORDERLINE"
)

// Concern severity values, ordered from disqualifying to minor.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// ValidVerdict reports whether v is one of the three allowed verdicts.
func ValidVerdict(v string) bool {
	return v == VerdictAdvance || v == VerdictReject || v == VerdictBorderline
}

// ValidSeverity reports whether s is one of the four allowed severities.
func ValidSeverity(s string) bool {
	return s == SeverityCritical || s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

// Job describes the position an interview was conducted for.
type Job struct {
	ID                 string
	Title              string
	Description        string
	CompanyName        string
	CompanyDescription string
	CreatedAt          time.Time
}

// QuestionBankEntry is a predefined interview question with optional answer
// guidelines. Treated as immutable for the duration of one analysis run.
type QuestionBankEntry struct {
	ID               string
	Question         string
	AnswerGuidelines string
}

// Interview references one Job and owns an ordered message log.
type Interview struct {
	ID        string
	JobID     string
	Status    string
	CreatedAt time.Time
}

// Message is a single role-tagged utterance in an interview.
type Message struct {
	ID          string
	InterviewID string
	Role        string
	Text        string
	CreatedAt   time.Time
}

// QASegment is one original (question, answer) exchange retained for
// traceability inside a GroupedQA.
type QASegment struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// GroupedQA is one synthesized discussion topic: a master question combining
// the baseline and its follow-ups, a coherent merged answer, and the original
// exchanges it was synthesized from. Invariant: len(OriginalSegments) >= 1.
// Ephemeral; never persisted as such.
type GroupedQA struct {
	SynthesizedQuestion string      `json:"synthesized_question"`
	SynthesizedAnswer   string      `json:"synthesized_answer"`
	OriginalSegments    []QASegment `json:"original_segments"`
}

// Strength is one of the top candidate strengths with supporting evidence.
type Strength struct {
	Title        string `json:"title"`
	Evidence     string `json:"evidence"`
	Relevance    string `json:"relevance"`
	DisplayOrder int    `json:"-"`
}

// Concern is a severity-tagged risk identified in the interview.
type Concern struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Evidence     string `json:"evidence,omitempty"`
	Impact       string `json:"impact"`
	Severity     string `json:"severity"`
	DisplayOrder int    `json:"-"`
}

// Highlight is a notable transcript quote. Zero highlights is a valid outcome
// for an unremarkable interview.
type Highlight struct {
	HighlightType    string   `json:"highlight_type"`
	Quote            string   `json:"quote"`
	Context          string   `json:"context"`
	TimestampSeconds *float64 `json:"timestamp_seconds,omitempty"`
	DisplayOrder     int      `json:"-"`
}

// JobAlignment maps the candidate against the job description. Singleton per
// analysis; the three lists are unranked and uncapped.
type JobAlignment struct {
	MatchedRequirements  []string `json:"matched_requirements"`
	MissingRequirements  []string `json:"missing_requirements"`
	ExceededRequirements []string `json:"exceeded_requirements"`
}

// QuestionAnalysis is the graded result for one GroupedQA. QuestionID is empty
// when the synthesized question matched no bank entry; it weakly references
// QuestionBankEntry (lookup only, not ownership).
type QuestionAnalysis struct {
	QuestionID         string   `json:"question_id,omitempty"`
	QuestionText       string   `json:"question_text"`
	AnswerSummary      string   `json:"answer_summary"`
	AnswerQualityScore int      `json:"answer_quality_score"`
	KeyPoints          []string `json:"key_points"`
	Concerns           []string `json:"concerns"`
	ExamplesProvided   []string `json:"examples_provided"`
	DisplayOrder       int      `json:"-"`
}

// Analysis is the parent record of a completed pipeline run. At most one
// exists per interview.
type Analysis struct {
	ID                   string
	InterviewID          string
	HiringVerdict        string
	VerdictSummary       string
	OverallMatchScore    int
	ProcessingDurationMS int64
	ModelUsed            string
	CreatedAt            time.Time
}

// AnalysisRecord is the full composite: the parent Analysis plus its five
// child collections, each ordered by display order. Created once, atomically,
// by a successful pipeline run; read-only thereafter.
type AnalysisRecord struct {
	Analysis     Analysis
	Strengths    []Strength
	Concerns     []Concern
	Highlights   []Highlight
	JobAlignment JobAlignment
	Questions    []QuestionAnalysis
}

// Repositories (ports)

type InterviewRepository interface {
	Get(ctx Context, id string) (Interview, error)
	ListMessages(ctx Context, interviewID string) ([]Message, error)
}

type JobRepository interface {
	Get(ctx Context, id string) (Job, error)
	ListQuestionBank(ctx Context, jobID string) ([]QuestionBankEntry, error)
}

// AnalysisRepository persists and loads the analysis aggregate.
// Create must be atomic across the parent and all children, and must return
// ErrConflict when an analysis already exists for the interview.
type AnalysisRepository interface {
	Create(ctx Context, rec AnalysisRecord) (string, error)
	GetByInterviewID(ctx Context, interviewID string) (AnalysisRecord, error)
	ExistsForInterview(ctx Context, interviewID string) (bool, error)
}

// TextGenerator (port)
// GenerateJSON returns the raw model output for a prompt that instructs the
// model to emit a single JSON object. Callers decode and validate the shape;
// implementations never retry.
type TextGenerator interface {
	GenerateJSON(ctx Context, systemPrompt, userPrompt string) (string, error)
	ModelName() string
}

// Context is an alias to allow decoupling from std context in domain.
// Adapters and usecases pass context.Context through.
type Context = context.Context
