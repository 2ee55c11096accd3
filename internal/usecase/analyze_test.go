package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// scriptedGenerator is a concurrency-safe TextGenerator for tests. It routes
// each call to a stage by the same prompt wording the pipeline uses, records
// the call, and returns either a per-stage override or a sensible default.
type scriptedGenerator struct {
	mu        sync.Mutex
	calls     []genCall
	responses map[string]string
	errs      map[string]error
}

type genCall struct {
	stage  string
	prompt string
}

func newScriptedGenerator() *scriptedGenerator {
	return &scriptedGenerator{responses: map[string]string{}, errs: map[string]error{}}
}

func (g *scriptedGenerator) ModelName() string { return "scripted" }

func stageOf(systemPrompt, userPrompt string) string {
	p := strings.ToLower(systemPrompt + "\n" + userPrompt)
	switch {
	case strings.Contains(p, "synthesize question-answer pairs"):
		return "extract"
	case strings.Contains(p, "matching interview questions"):
		return "match"
	case strings.Contains(p, "evaluating a candidate's interview answer"):
		return "grade"
	case strings.Contains(p, "top 3 candidate strengths"):
		return "strengths"
	case strings.Contains(p, "concerns and red flags"):
		return "concerns"
	case strings.Contains(p, "transcript highlights"):
		return "highlights"
	case strings.Contains(p, "aligns with the job requirements"):
		return "alignment"
	default:
		return "verdict"
	}
}

var defaultResponses = map[string]string{
	"extract": `{"grouped_topics":[
		{"synthesized_question":"Tell me about your Go experience","synthesized_answer":"I built payment services in Go.",
		 "original_segments":[{"question":"Go experience?","answer":"I built payment services."},{"question":"Which service?","answer":"A payments API."}]},
		{"synthesized_question":"Describe a project you led","synthesized_answer":"I led a data migration.",
		 "original_segments":[{"question":"Describe a project you led","answer":"I led a data migration."}]}
	]}`,
	"match":      `{"matched_question_id":null}`,
	"grade":      `{"answer_quality_score":70,"key_points":["clear ownership"],"concerns":[],"examples_provided":["payments API"]}`,
	"strengths":  `{"strengths":[{"title":"Go depth","evidence":"payments API","relevance":"core stack"},{"title":"Ownership","evidence":"led migration","relevance":"senior role"},{"title":"Communication","evidence":"structured answers","relevance":"team fit"}]}`,
	"concerns":   `{"concerns":[{"title":"Backend only","description":"No cross-stack examples","evidence":"","impact":"may need support","severity":"medium"}]}`,
	"highlights": `{"highlights":[]}`,
	"alignment":  `{"matched_requirements":["Go"],"missing_requirements":[],"exceeded_requirements":["migration leadership"]}`,
	"verdict":    `{"hiring_verdict":"ADVANCE","verdict_summary":"Strong fit with one manageable gap.","overall_match_score":82}`,
}

func (g *scriptedGenerator) GenerateJSON(_ domain.Context, systemPrompt, userPrompt string) (string, error) {
	stage := stageOf(systemPrompt, userPrompt)
	g.mu.Lock()
	g.calls = append(g.calls, genCall{stage: stage, prompt: userPrompt})
	g.mu.Unlock()
	if err := g.errs[stage]; err != nil {
		return "", err
	}
	if resp, ok := g.responses[stage]; ok {
		return resp, nil
	}
	return defaultResponses[stage], nil
}

func (g *scriptedGenerator) stageCalls(stage string) []genCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []genCall
	for _, c := range g.calls {
		if c.stage == stage {
			out = append(out, c)
		}
	}
	return out
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeInterviewRepo struct {
	interview domain.Interview
	msgs      []domain.Message
	getErr    error
}

func (f *fakeInterviewRepo) Get(_ domain.Context, id string) (domain.Interview, error) {
	if f.getErr != nil {
		return domain.Interview{}, f.getErr
	}
	if id != f.interview.ID {
		return domain.Interview{}, fmt.Errorf("interview %s: %w", id, domain.ErrNotFound)
	}
	return f.interview, nil
}

func (f *fakeInterviewRepo) ListMessages(_ domain.Context, _ string) ([]domain.Message, error) {
	return f.msgs, nil
}

type fakeJobRepo struct {
	job  domain.Job
	bank []domain.QuestionBankEntry
}

func (f *fakeJobRepo) Get(_ domain.Context, id string) (domain.Job, error) {
	if id != f.job.ID {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	return f.job, nil
}

func (f *fakeJobRepo) ListQuestionBank(_ domain.Context, _ string) ([]domain.QuestionBankEntry, error) {
	return f.bank, nil
}

// fakeAnalysisRepo mirrors the real repository contract: atomic create, at
// most one record per interview, display orders assigned at insert time.
type fakeAnalysisRepo struct {
	mu        sync.Mutex
	stored    *domain.AnalysisRecord
	exists    bool
	createErr error
}

func (f *fakeAnalysisRepo) Create(_ domain.Context, rec domain.AnalysisRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.exists || f.stored != nil {
		return "", fmt.Errorf("analysis for interview %s: %w", rec.Analysis.InterviewID, domain.ErrConflict)
	}
	rec.Analysis.ID = "an-1"
	rec.Analysis.CreatedAt = time.Now().UTC()
	for i := range rec.Strengths {
		rec.Strengths[i].DisplayOrder = i
	}
	for i := range rec.Concerns {
		rec.Concerns[i].DisplayOrder = i
	}
	for i := range rec.Highlights {
		rec.Highlights[i].DisplayOrder = i
	}
	f.stored = &rec
	return rec.Analysis.ID, nil
}

func (f *fakeAnalysisRepo) GetByInterviewID(_ domain.Context, interviewID string) (domain.AnalysisRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil || f.stored.Analysis.InterviewID != interviewID {
		return domain.AnalysisRecord{}, fmt.Errorf("analysis for interview %s: %w", interviewID, domain.ErrNotFound)
	}
	return *f.stored, nil
}

func (f *fakeAnalysisRepo) ExistsForInterview(_ domain.Context, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists || f.stored != nil, nil
}

type fixture struct {
	gen        *scriptedGenerator
	interviews *fakeInterviewRepo
	jobs       *fakeJobRepo
	analyses   *fakeAnalysisRepo
	svc        AnalyzeService
}

func newFixture() *fixture {
	gen := newScriptedGenerator()
	interviews := &fakeInterviewRepo{
		interview: domain.Interview{ID: "iv-1", JobID: "job-1", Status: "completed"},
		msgs: []domain.Message{
			{Role: domain.RoleInterviewer, Text: "Tell me about your Go experience."},
			{Role: domain.RoleCandidate, Text: "I built payment services in Go."},
		},
	}
	jobs := &fakeJobRepo{
		job: domain.Job{ID: "job-1", Title: "Backend Engineer", Description: "Build Go services", CompanyName: "Acme"},
		bank: []domain.QuestionBankEntry{
			{ID: "qb-1", Question: "Tell me about your Go experience", AnswerGuidelines: "Expect production examples"},
		},
	}
	analyses := &fakeAnalysisRepo{}
	return &fixture{
		gen:        gen,
		interviews: interviews,
		jobs:       jobs,
		analyses:   analyses,
		svc:        NewAnalyzeService(interviews, jobs, analyses, gen, time.Minute),
	}
}

func TestAnalyzePersistsAndReturnsStoredView(t *testing.T) {
	f := newFixture()

	rec, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)

	assert.Equal(t, "an-1", rec.Analysis.ID)
	assert.Equal(t, "iv-1", rec.Analysis.InterviewID)
	assert.Equal(t, domain.VerdictAdvance, rec.Analysis.HiringVerdict)
	assert.Equal(t, 82, rec.Analysis.OverallMatchScore)
	assert.Equal(t, "scripted", rec.Analysis.ModelUsed)
	assert.False(t, rec.Analysis.CreatedAt.IsZero())
	assert.GreaterOrEqual(t, rec.Analysis.ProcessingDurationMS, int64(0))

	require.Len(t, rec.Strengths, 3)
	require.Len(t, rec.Concerns, 1)
	assert.Empty(t, rec.Highlights)
	assert.Equal(t, []string{"Go"}, rec.JobAlignment.MatchedRequirements)

	require.Len(t, rec.Questions, 2)
	for i, q := range rec.Questions {
		assert.Equal(t, i, q.DisplayOrder)
		assert.Equal(t, 70, q.AnswerQualityScore)
	}

	// The returned view is the stored one, so a subsequent read agrees with it.
	stored, err := f.analyses.GetByInterviewID(context.Background(), "iv-1")
	require.NoError(t, err)
	assert.Equal(t, rec, stored)
}

func TestAnalyzeUnknownInterviewFailsBeforeGeneration(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Analyze(context.Background(), "iv-missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.gen.callCount())
}

func TestAnalyzeExistingAnalysisConflictsBeforeGeneration(t *testing.T) {
	f := newFixture()
	f.analyses.exists = true

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, f.gen.callCount())
}

func TestAnalyzeDuplicateInsertMapsToConflict(t *testing.T) {
	f := newFixture()
	// A concurrent run won the insert race after our pre-check passed.
	f.analyses.createErr = fmt.Errorf("analysis for interview iv-1: %w", domain.ErrConflict)

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestAnalyzeEmptyBankSkipsMatching(t *testing.T) {
	f := newFixture()
	f.jobs.bank = nil

	rec, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)
	assert.Empty(t, f.gen.stageCalls("match"))
	require.Len(t, rec.Questions, 2)
	for _, q := range rec.Questions {
		assert.Empty(t, q.QuestionID)
	}
}

func TestAnalyzeMatcherFailureDegradesToNoMatch(t *testing.T) {
	f := newFixture()
	f.gen.errs["match"] = errors.New("model unavailable")

	rec, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)
	require.Len(t, rec.Questions, 2)
	for _, q := range rec.Questions {
		assert.Empty(t, q.QuestionID)
	}
	// Grading still ran for every topic.
	assert.Len(t, f.gen.stageCalls("grade"), 2)
}

func TestAnalyzeUnknownMatchedIDTreatedAsNoMatch(t *testing.T) {
	f := newFixture()
	f.gen.responses["match"] = `{"matched_question_id":"qb-does-not-exist"}`

	rec, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)
	for _, q := range rec.Questions {
		assert.Empty(t, q.QuestionID)
	}
}

func TestAnalyzeMatchedQuestionGradesAgainstGuideline(t *testing.T) {
	f := newFixture()
	f.gen.responses["match"] = `{"matched_question_id":"qb-1"}`

	rec, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)

	var matched int
	for _, q := range rec.Questions {
		if q.QuestionID == "qb-1" {
			matched++
		}
	}
	assert.Equal(t, 2, matched)

	grades := f.gen.stageCalls("grade")
	require.Len(t, grades, 2)
	for _, c := range grades {
		assert.Contains(t, c.prompt, "Answer Guidelines")
		assert.Contains(t, c.prompt, "Expect production examples")
	}
}

func TestAnalyzeUnmatchedGradeUsesJobDescription(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)

	grades := f.gen.stageCalls("grade")
	require.NotEmpty(t, grades)
	for _, c := range grades {
		assert.NotContains(t, c.prompt, "Answer Guidelines")
		assert.Contains(t, c.prompt, "Build Go services")
	}
}

func TestAnalyzeInsightFailureAbortsWithoutPersisting(t *testing.T) {
	f := newFixture()
	f.gen.errs["strengths"] = errors.New("model unavailable")

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Nil(t, f.analyses.stored)
}

func TestAnalyzeMalformedOutputIsSchemaInvalid(t *testing.T) {
	f := newFixture()
	f.gen.responses["alignment"] = `this is not json`

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
	assert.Nil(t, f.analyses.stored)
}

func TestAnalyzeTopicWithoutSegmentsRejected(t *testing.T) {
	f := newFixture()
	f.gen.responses["extract"] = `{"grouped_topics":[{"synthesized_question":"Q","synthesized_answer":"A","original_segments":[]}]}`

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
	assert.Nil(t, f.analyses.stored)
}

func TestAnalyzeGradeScoreOutOfRangeRejected(t *testing.T) {
	f := newFixture()
	f.gen.responses["grade"] = `{"answer_quality_score":150,"key_points":[],"concerns":[],"examples_provided":[]}`

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestAnalyzeInvalidSeverityRejected(t *testing.T) {
	f := newFixture()
	f.gen.responses["concerns"] = `{"concerns":[{"title":"x","description":"y","impact":"z","severity":"catastrophic"}]}`

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
	assert.Nil(t, f.analyses.stored)
}

func TestAnalyzeConcernsClampedToFive(t *testing.T) {
	f := newFixture()
	var items []string
	for i := 0; i < 7; i++ {
		items = append(items, fmt.Sprintf(`{"title":"c%d","description":"d","impact":"i","severity":"low"}`, i))
	}
	f.gen.responses["concerns"] = `{"concerns":[` + strings.Join(items, ",") + `]}`

	rec, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)
	require.Len(t, rec.Concerns, 5)
	for i, c := range rec.Concerns {
		assert.Equal(t, fmt.Sprintf("c%d", i), c.Title)
		assert.Equal(t, i, c.DisplayOrder)
	}
}

func TestAnalyzeHighlightsClampedToSix(t *testing.T) {
	f := newFixture()
	var items []string
	for i := 0; i < 8; i++ {
		items = append(items, fmt.Sprintf(`{"highlight_type":"positive","quote":"q%d","context":"c"}`, i))
	}
	f.gen.responses["highlights"] = `{"highlights":[` + strings.Join(items, ",") + `]}`

	rec, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)
	assert.Len(t, rec.Highlights, 6)
}

func TestAnalyzeInvalidVerdictRejected(t *testing.T) {
	f := newFixture()
	f.gen.responses["verdict"] = `{"hiring_verdict":"MAYBE","verdict_summary":"unsure","overall_match_score":50}`

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
	assert.Nil(t, f.analyses.stored)
}

func TestAnalyzeVerdictScoreOutOfRangeRejected(t *testing.T) {
	f := newFixture()
	f.gen.responses["verdict"] = `{"hiring_verdict":"ADVANCE","verdict_summary":"great","overall_match_score":101}`

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestAnalyzeEmptyVerdictSummaryRejected(t *testing.T) {
	f := newFixture()
	f.gen.responses["verdict"] = `{"hiring_verdict":"ADVANCE","verdict_summary":"","overall_match_score":80}`

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestAnalyzeVerdictRunsAfterFullBatch(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Analyze(context.Background(), "iv-1")
	require.NoError(t, err)

	f.gen.mu.Lock()
	defer f.gen.mu.Unlock()
	require.NotEmpty(t, f.gen.calls)
	last := f.gen.calls[len(f.gen.calls)-1]
	assert.Equal(t, "verdict", last.stage)
	// The verdict prompt is grounded in the structured batch output.
	assert.Contains(t, last.prompt, "CANDIDATE STRENGTHS")
	assert.Contains(t, last.prompt, "QUESTION-BY-QUESTION PERFORMANCE")
	assert.Contains(t, last.prompt, "Go depth")
}
