package usecase

import (
	"strings"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// AssembleTranscript builds the normalized analysis context: a fixed-order
// job header followed by the chronological role-tagged message log. Pure; the
// caller is responsible for message ordering.
func AssembleTranscript(job domain.Job, msgs []domain.Message) string {
	var b strings.Builder
	b.WriteString("INTERVIEW CONTEXT:\n")
	b.WriteString("Job Title: " + job.Title + "\n")
	b.WriteString("Company: " + orNA(job.CompanyName) + "\n")
	b.WriteString("Job Description: " + orNA(job.Description) + "\n")
	b.WriteString("\nINTERVIEW TRANSCRIPT:\n")
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, strings.ToUpper(m.Role)+": "+m.Text)
	}
	b.WriteString(strings.Join(lines, "\n\n"))
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
