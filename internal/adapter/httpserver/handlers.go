package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/config"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg     config.Config
	Analyze usecase.AnalyzeService
	Queries usecase.AnalysisQueryService
	DBCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, analyze usecase.AnalyzeService, queries usecase.AnalysisQueryService, dbCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Analyze: analyze, Queries: queries, DBCheck: dbCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// analysisView is the JSON shape of the composite analysis returned by both
// GET and POST.
type analysisView struct {
	ID                   string                    `json:"id"`
	InterviewID          string                    `json:"interview_id"`
	HiringVerdict        string                    `json:"hiring_verdict"`
	VerdictSummary       string                    `json:"verdict_summary"`
	OverallMatchScore    int                       `json:"overall_match_score"`
	ProcessingDurationMS int64                     `json:"processing_duration_ms"`
	ModelUsed            string                    `json:"model_used"`
	CreatedAt            time.Time                 `json:"created_at"`
	Strengths            []domain.Strength         `json:"strengths"`
	Concerns             []domain.Concern          `json:"concerns"`
	Highlights           []domain.Highlight        `json:"highlights"`
	JobAlignment         domain.JobAlignment       `json:"job_alignment"`
	QuestionAnalysis     []domain.QuestionAnalysis `json:"question_analysis"`
}

func toView(rec domain.AnalysisRecord) analysisView {
	v := analysisView{
		ID:                   rec.Analysis.ID,
		InterviewID:          rec.Analysis.InterviewID,
		HiringVerdict:        rec.Analysis.HiringVerdict,
		VerdictSummary:       rec.Analysis.VerdictSummary,
		OverallMatchScore:    rec.Analysis.OverallMatchScore,
		ProcessingDurationMS: rec.Analysis.ProcessingDurationMS,
		ModelUsed:            rec.Analysis.ModelUsed,
		CreatedAt:            rec.Analysis.CreatedAt,
		Strengths:            rec.Strengths,
		Concerns:             rec.Concerns,
		Highlights:           rec.Highlights,
		JobAlignment:         rec.JobAlignment,
		QuestionAnalysis:     rec.Questions,
	}
	// Empty collections serialize as [] rather than null.
	if v.Strengths == nil {
		v.Strengths = []domain.Strength{}
	}
	if v.Concerns == nil {
		v.Concerns = []domain.Concern{}
	}
	if v.Highlights == nil {
		v.Highlights = []domain.Highlight{}
	}
	if v.QuestionAnalysis == nil {
		v.QuestionAnalysis = []domain.QuestionAnalysis{}
	}
	return v
}

func interviewIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := getValidator().Var(id, "required,max=128"); err != nil {
		return "", fmt.Errorf("%w: invalid interview id", domain.ErrInvalidArgument)
	}
	return id, nil
}

// GetAnalysisHandler returns the stored composite analysis for an interview.
func (s *Server) GetAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := interviewIDParam(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		rec, err := s.Queries.GetByInterviewID(r.Context(), id)
		if err != nil {
			writeError(w, r, err, map[string]string{"interview_id": id})
			return
		}
		writeJSON(w, http.StatusOK, toView(rec))
	}
}

// CreateAnalysisHandler runs the full pipeline for an interview and returns
// the stored composite view.
func (s *Server) CreateAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := interviewIDParam(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		lg := LoggerFrom(r)
		observability.AnalysesStartedTotal.Inc()
		rec, err := s.Analyze.Analyze(r.Context(), id)
		if err != nil {
			observability.AnalysesFailedTotal.WithLabelValues(failureReason(err)).Inc()
			lg.Error("analysis failed", "interview_id", id, "error", err)
			writeError(w, r, err, map[string]string{"interview_id": id})
			return
		}
		observability.AnalysesCompletedTotal.Inc()
		observability.ObserveVerdict(rec.Analysis.HiringVerdict, rec.Analysis.OverallMatchScore)
		writeJSON(w, http.StatusOK, toView(rec))
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrSchemaInvalid):
		return "schema_invalid"
	case errors.Is(err, domain.ErrGenerationFailed):
		return "generation_failed"
	default:
		return "internal"
	}
}

// ReadyzHandler reports readiness based on the database check.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.DBCheck != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := s.DBCheck(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "reason": "db"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
