// Package stub provides a fast, deterministic TextGenerator for local
// development and tests.
package stub

import (
	"strings"
	"time"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// Client returns canned JSON keyed off the prompt wording of each pipeline
// stage. Matching no generation service keeps dev runs free and reproducible.
type Client struct{}

func New() *Client { return &Client{} }

// ModelName identifies stub output in persisted analyses.
func (c *Client) ModelName() string { return "stub" }

// GenerateJSON returns a compact JSON string matching the expected shape of
// the stage whose prompt it recognizes.
func (c *Client) GenerateJSON(_ domain.Context, systemPrompt, userPrompt string) (string, error) {
	// Simulate a tiny bit of processing latency to resemble real work
	time.Sleep(50 * time.Millisecond)
	p := strings.ToLower(systemPrompt + "\n" + userPrompt)
	switch {
	case strings.Contains(p, "synthesize question-answer pairs"):
		return `{"grouped_topics":[
			{"synthesized_question":"Tell me about your experience with Go, including the services you have built and operated",
			 "synthesized_answer":"I have built and operated several Go services, including a payments API handling sustained production traffic.",
			 "original_segments":[{"question":"Tell me about your experience with Go","answer":"I have built several Go services."},{"question":"Which one are you most proud of?","answer":"A payments API that handled sustained production traffic."}]},
			{"synthesized_question":"Describe a time you led a project, how you handled setbacks, and what the outcome was",
			 "synthesized_answer":"I led a migration project, recovered it from an early schema mistake, and shipped it two weeks early.",
			 "original_segments":[{"question":"Describe a time you led a project","answer":"I led a migration project and shipped it early despite an early schema mistake."}]}
		]}`, nil
	case strings.Contains(p, "matching interview questions"):
		return `{"matched_question_id":null}`, nil
	case strings.Contains(p, "evaluating a candidate's interview answer"):
		return `{"answer_quality_score":78,
			"key_points":["Concrete production experience","Clear ownership of outcomes"],
			"concerns":[],
			"examples_provided":["Payments API under sustained traffic"]}`, nil
	case strings.Contains(p, "top 3 candidate strengths"):
		return `{"strengths":[
			{"title":"Production Go experience","evidence":"Described building and operating a payments API.","relevance":"Directly matches the core stack for this role."},
			{"title":"Ownership under pressure","evidence":"Recovered a migration project from an early schema mistake.","relevance":"Signals reliability on critical projects."},
			{"title":"Clear communication","evidence":"Answers were structured and specific throughout.","relevance":"Important for a collaborative team."}
		]}`, nil
	case strings.Contains(p, "concerns and red flags"):
		return `{"concerns":[
			{"title":"Limited breadth beyond backend","description":"All examples centered on backend services.","evidence":"No frontend or infrastructure examples given.","impact":"May need support on cross-stack work.","severity":"medium"}
		]}`, nil
	case strings.Contains(p, "transcript highlights"):
		return `{"highlights":[]}`, nil
	case strings.Contains(p, "aligns with the job requirements"):
		return `{"matched_requirements":["Go services in production","Incident ownership"],
			"missing_requirements":[],
			"exceeded_requirements":["Led a migration project end to end"]}`, nil
	default:
		return `{"hiring_verdict":"ADVANCE","verdict_summary":"Strong production experience and clear communication outweigh the single noted gap.","overall_match_score":82}`, nil
	}
}
