package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRoundTrip(t *testing.T) {
	out, err := Format(json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", out)

	var back map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	assert.Equal(t, map[string]any{"a": float64(1)}, back)
}

func TestFormatKeepsKeyOrder(t *testing.T) {
	out, err := Format(json.RawMessage(`{"zeta":1,"alpha":{"b":[1,2],"a":null}}`))
	require.NoError(t, err)

	expected := `{
  "zeta": 1,
  "alpha": {
    "b": [
      1,
      2
    ],
    "a": null
  }
}`
	assert.Equal(t, expected, out)
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"truncated", `{"a":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(json.RawMessage(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		warnings int
		contains string
	}{
		{
			name:     "conforming",
			raw:      `{"jobTitle":"Engineer","company":"Acme","skills":["Go"],"salaryRange":{"min":100,"max":null,"currency":"USD"}}`,
			warnings: 0,
		},
		{
			name:     "nulls allowed",
			raw:      `{"jobTitle":null,"company":null,"experience":null,"benefits":null}`,
			warnings: 0,
		},
		{
			name:     "missing required",
			raw:      `{"jobTitle":"Engineer"}`,
			warnings: 1,
			contains: "company",
		},
		{
			name:     "wrong type",
			raw:      `{"jobTitle":"Engineer","company":"Acme","skills":"Go, Rust"}`,
			warnings: 1,
			contains: "/skills",
		},
		{
			name:     "not an object",
			raw:      `["Engineer"]`,
			warnings: 1,
		},
		{
			name:     "not json",
			raw:      `nope`,
			warnings: 1,
			contains: "not JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := Inspect(json.RawMessage(tt.raw))
			assert.Len(t, warnings, tt.warnings)
			if tt.contains != "" {
				assert.Contains(t, strings.Join(warnings, "\n"), tt.contains)
			}
		})
	}
}

func TestHighlightAsciiIsPlain(t *testing.T) {
	h := NewHighlighter("dracula", termenv.Ascii)
	text := "{\n  \"a\": 1\n}"

	assert.Equal(t, text, h.Highlight(text))
}

func TestHighlightColors(t *testing.T) {
	h := NewHighlighter("dracula", termenv.TrueColor)
	text := "{\n  \"jobTitle\": \"Engineer\"\n}"

	out := h.Highlight(text)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "jobTitle")
	assert.Equal(t, strings.Count(text, "\n"), strings.Count(out, "\n"))
}

func TestHighlightUnknownTheme(t *testing.T) {
	h := NewHighlighter("no-such-style", termenv.ANSI256)
	assert.NotNil(t, h.style)
	assert.NotEmpty(t, h.Highlight(`{"a":1}`))
}
