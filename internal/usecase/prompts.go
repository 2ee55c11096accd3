package usecase

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// Prompt builders for every pipeline stage. Each stage instructs the model to
// return a single JSON object of a fixed shape; decoding and validation
// happen in the stage functions.

const extractSystemPrompt = "You are an expert at analyzing interview transcripts."

func extractPrompt(transcript string) string {
	return fmt.Sprintf(`Extract, group, and synthesize question-answer pairs from the interview.

Your task:
1. Identify distinct topics discussed in the interview
2. For each topic, find the baseline question and any follow-up questions
3. Synthesize all questions about the same topic into one comprehensive "master" question that preserves the intent of the follow-ups
4. Synthesize all answers about the same topic into one cohesive response

Guidelines for synthesis:
- The synthesized question should capture the essence of what the interviewer wanted to know
- Include key details from follow-up questions in the synthesized question
- The synthesized answer should be a coherent narrative combining all responses
- Maintain the candidate's voice and key examples and details

For each topic, return the synthesized question, the synthesized answer, and the original question-answer segments it was built from.

Return JSON: {"grouped_topics":[{"synthesized_question":string,"synthesized_answer":string,"original_segments":[{"question":string,"answer":string}]}]}

Interview Transcript:
%s`, transcript)
}

const matchSystemPrompt = "You are an expert at matching interview questions based on semantic meaning and intent."

func matchPrompt(synthesizedQuestion string, bank []domain.QuestionBankEntry) string {
	var entries strings.Builder
	for i, e := range bank {
		fmt.Fprintf(&entries, "%d. ID: %s\n   Question: %q\n\n", i+1, e.ID, e.Question)
	}
	return fmt.Sprintf(`Given a synthesized question from an interview (which may combine multiple related questions into one comprehensive question) and a list of predefined questions, determine which predefined question (if any) best matches the core topic.

Important: The synthesized question may be more detailed and comprehensive than the predefined questions, as it incorporates follow-up questions and clarifications. Focus on matching the PRIMARY TOPIC rather than exact wording.

Consider:
- Core topic and subject matter (most important)
- Overall intent of what's being assessed
- Key skills or experiences being evaluated
- Don't penalize for additional details in the synthesized question

Return JSON: {"matched_question_id":string or null}. Use null if no predefined question addresses the same core topic.

## Synthesized Question (from interview)
%q

## Predefined Questions
%s`, synthesizedQuestion, entries.String())
}

const gradeSystemPrompt = "You are an expert recruiter evaluating a candidate's interview answer."

func gradePrompt(qa domain.GroupedQA, guideline string, job domain.Job) string {
	var b strings.Builder
	if guideline != "" {
		b.WriteString("Grade the answer against the specific answer guidelines provided.\n\n")
	} else {
		b.WriteString("Grade the answer based on how well it demonstrates qualifications for the job described.\n\n")
	}
	b.WriteString(`Note: The question and answer have been synthesized from multiple exchanges to capture the complete discussion of this topic.

Analyze the response and provide:
1. A quality score (0-100, MUST be a whole number with no decimals) based on `)
	if guideline != "" {
		b.WriteString("how well they met the guidelines")
	} else {
		b.WriteString("relevance and quality for the role")
	}
	b.WriteString(`
2. Key points that stood out positively
3. Any concerns or gaps in the answer
4. Specific examples the candidate provided

Consider:
- The depth and completeness of their response
- The coherence and clarity of their communication
- The relevance to the role requirements

Return JSON: {"answer_quality_score":int,"key_points":[string],"concerns":[string],"examples_provided":[string]}

## Job Context
`)
	b.WriteString("Job Title: " + job.Title + "\n")
	b.WriteString("Job Description: " + orNA(job.Description) + "\n")
	if job.CompanyName != "" {
		b.WriteString("Company: " + job.CompanyName + "\n")
	}
	b.WriteString("\n## Question\n" + qa.SynthesizedQuestion + "\n")
	b.WriteString("\n## Candidate's Response\n" + qa.SynthesizedAnswer + "\n")
	if guideline != "" {
		b.WriteString("\n## Answer Guidelines\n" + guideline + "\n")
	}
	return b.String()
}

func strengthsPrompt(transcript string) string {
	return transcript + `

Identify the TOP 3 candidate strengths.

Focus on job-relevant strengths with concrete evidence and a stated link to the role. Quality over quantity.

Return JSON: {"strengths":[{"title":string,"evidence":string,"relevance":string}]}`
}

func concernsPrompt(transcript string) string {
	return transcript + `

Identify ALL concerns and red flags.

Guidelines:
- "critical" = deal-breaker red flags (dishonesty, major skill gaps, etc.)
- "high" = significant concerns that could impact success
- "medium" = notable gaps that need addressing
- "low" = minor concerns or areas for development

Include up to 5 most important concerns. If no concerns, return an empty array.

Return JSON: {"concerns":[{"title":string,"description":string,"evidence":string,"impact":string,"severity":"critical"|"high"|"medium"|"low"}]}`
}

func highlightsPrompt(transcript string) string {
	return transcript + `

Extract up to 6 key transcript highlights.

Include a mix of positive and concerning highlights that support the hiring decision.
Use descriptive highlight_type values that clearly indicate what the highlight demonstrates.
Do not force highlights in either direction: an unremarkable interview should yield few or zero highlights. An empty array is a valid answer.

Return JSON: {"highlights":[{"highlight_type":string,"quote":string,"context":string,"timestamp_seconds":number (optional)}]}`
}

func jobAlignmentPrompt(transcript string) string {
	return transcript + `

Analyze how the candidate aligns with the job requirements.

IMPORTANT GUIDELINES:
- Focus on EXPLICIT requirements from the job description
- Consider reasonably implied skills (e.g., CSS knowledge for front-end developers)
- Don't penalize for missing tools that are industry-standard variations
- Consider the seniority level of the role

For matched_requirements, list skills and experiences the candidate clearly demonstrated.
For missing_requirements, ONLY list truly critical gaps that would impact job performance.
For exceeded_requirements, highlight skills and experiences beyond what is required.

Be specific and reference the job description directly. Keep each item concise.

Return JSON: {"matched_requirements":[string],"missing_requirements":[string],"exceeded_requirements":[string]}`
}

func verdictPrompt(transcript string, strengths []domain.Strength, concerns []domain.Concern, alignment domain.JobAlignment, questions []domain.QuestionAnalysis) string {
	var b strings.Builder
	b.WriteString(transcript)
	b.WriteString("\n\nAs an expert recruiter, analyze this interview and provide a comprehensive hiring verdict based on ALL of the following analysis:\n")

	b.WriteString("\n## CANDIDATE STRENGTHS\n")
	for i, s := range strengths {
		fmt.Fprintf(&b, "%d. %s\n   - Evidence: %s\n   - Relevance: %s\n", i+1, s.Title, s.Evidence, s.Relevance)
	}

	b.WriteString("\n## CONCERNS & RED FLAGS\n")
	if len(concerns) == 0 {
		b.WriteString("No significant concerns identified.\n")
	}
	for i, c := range concerns {
		fmt.Fprintf(&b, "%d. %s [%s]\n   - Description: %s\n   - Impact: %s\n", i+1, c.Title, c.Severity, c.Description, c.Impact)
		if c.Evidence != "" {
			fmt.Fprintf(&b, "   - Evidence: %s\n", c.Evidence)
		}
	}

	b.WriteString("\n## JOB ALIGNMENT ANALYSIS\n")
	fmt.Fprintf(&b, "Matched Requirements: %s\n", orNone(alignment.MatchedRequirements))
	fmt.Fprintf(&b, "Missing Requirements: %s\n", orNone(alignment.MissingRequirements))
	fmt.Fprintf(&b, "Exceeded Requirements: %s\n", orNone(alignment.ExceededRequirements))

	b.WriteString("\n## QUESTION-BY-QUESTION PERFORMANCE\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n   - Quality Score: %d/100\n   - Summary: %s\n   - Key Points: %s\n   - Concerns: %s\n",
			i+1, q.QuestionText, q.AnswerQualityScore, q.AnswerSummary,
			strings.Join(q.KeyPoints, "; "), orNone(q.Concerns))
	}

	b.WriteString(`
Based on this comprehensive analysis of the entire interview, job requirements, and all insights generated above, provide a final hiring verdict.

Consider:
- The overall pattern of strengths vs concerns
- How well the candidate meets the job requirements
- The quality and consistency of their answers across all questions
- Any critical red flags that would disqualify them
- Their potential for success in this specific role

Be decisive - BORDERLINE should only be used when the positives and negatives are truly balanced and you cannot make a clear recommendation.

IMPORTANT: The overall_match_score MUST be a whole number (integer) between 0 and 100.

Return JSON: {"hiring_verdict":"ADVANCE"|"REJECT"|"BORDERLINE","verdict_summary":string,"overall_match_score":int}`)
	return b.String()
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
