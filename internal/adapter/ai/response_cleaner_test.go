package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONResponse(t *testing.T) {
	rc := NewResponseCleaner()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already clean",
			in:   `{"verdict":"ADVANCE"}`,
			want: `{"verdict":"ADVANCE"}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"verdict\":\"ADVANCE\"}\n```",
			want: `{"verdict":"ADVANCE"}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"score\":80}\n```",
			want: `{"score":80}`,
		},
		{
			name: "leading prose",
			in:   "Here is the analysis you asked for:\n{\"score\":80}",
			want: `{"score":80}`,
		},
		{
			name: "trailing prose",
			in:   `{"score":80} I hope this helps!`,
			want: `{"score":80}`,
		},
		{
			name: "trailing comma",
			in:   `{"items":[1,2,],}`,
			want: `{"items":[1,2]}`,
		},
		{
			name: "braces inside strings",
			in:   `{"quote":"he said {hello} and left"} trailing`,
			want: `{"quote":"he said {hello} and left"}`,
		},
		{
			name: "escaped quotes inside strings",
			in:   `{"quote":"she said \"{ok}\""} extra`,
			want: `{"quote":"she said \"{ok}\""}`,
		},
		{
			name: "nested objects",
			in:   `noise {"a":{"b":{"c":1}}} noise`,
			want: `{"a":{"b":{"c":1}}}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rc.CleanJSONResponse(tc.in)
			assert.Equal(t, tc.want, got)
			assert.True(t, rc.IsValidJSON(got), "cleaned output must decode: %s", got)
		})
	}
}

func TestCleanJSONResponseNoObject(t *testing.T) {
	rc := NewResponseCleaner()
	got := rc.CleanJSONResponse("no json here at all")
	assert.False(t, rc.IsValidJSON(got))
}

func TestIsValidJSON(t *testing.T) {
	rc := NewResponseCleaner()
	assert.True(t, rc.IsValidJSON(`{"a":1}`))
	assert.True(t, rc.IsValidJSON(`[1,2,3]`))
	assert.False(t, rc.IsValidJSON(`{"a":1,}`))
}
