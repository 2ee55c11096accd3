// Package ai provides response cleaning utilities for handling malformed
// generator output before JSON decoding.
package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ResponseCleaner normalizes raw model output into a decodable JSON object.
// Models occasionally wrap JSON in markdown fences or prepend prose even when
// instructed not to.
type ResponseCleaner struct{}

// NewResponseCleaner creates a new response cleaner.
func NewResponseCleaner() *ResponseCleaner {
	return &ResponseCleaner{}
}

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// CleanJSONResponse strips markdown fences, extracts the first JSON object
// from mixed content, and fixes trailing commas.
func (rc *ResponseCleaner) CleanJSONResponse(response string) string {
	response = rc.removeMarkdownFences(response)
	response = rc.extractObject(response)
	if !rc.IsValidJSON(response) {
		response = trailingCommaRe.ReplaceAllString(response, "$1")
	}
	return response
}

func (rc *ResponseCleaner) removeMarkdownFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// extractObject returns the first brace-balanced JSON object in the input.
func (rc *ResponseCleaner) extractObject(response string) string {
	start := strings.Index(response, "{")
	if start == -1 {
		return response
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response[start:]
}

// IsValidJSON checks if a string is valid JSON.
func (rc *ResponseCleaner) IsValidJSON(response string) bool {
	var v any
	return json.Unmarshal([]byte(response), &v) == nil
}
