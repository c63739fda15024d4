package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBare(t *testing.T) {
	got, err := ExtractJSON(`{"assessment": "tension headache"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"assessment": "tension headache"}`, got)
}

func TestExtractJSONFenced(t *testing.T) {
	reply := "Here is the report:\n```json\n{\"assessment\": \"viral infection\"}\n```\nLet me know if you need more."
	got, err := ExtractJSON(reply)
	require.NoError(t, err)
	assert.Equal(t, `{"assessment": "viral infection"}`, got)
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	got, err := ExtractJSON(`Sure! {"a": {"b": 1}} Hope that helps.`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 1}}`, got)
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	reply := `{"note": "use {caution} with \"quotes\""}`
	got, err := ExtractJSON(reply)
	require.NoError(t, err)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Equal(t, `use {caution} with "quotes"`, parsed["note"])
}

func TestExtractJSONNoObject(t *testing.T) {
	_, err := ExtractJSON("I cannot produce a report for that.")
	assert.Error(t, err)
}

func TestExtractJSONUnterminated(t *testing.T) {
	_, err := ExtractJSON(`{"assessment": "truncated`)
	assert.Error(t, err)
}

func TestStripMarkdown(t *testing.T) {
	in := "## Advice\n**Rest** and drink *plenty* of `water`."
	assert.Equal(t, "Advice\nRest and drink plenty of water.", StripMarkdown(in))
}

func TestStripMarkdownFences(t *testing.T) {
	in := "Take this:\n```\nparacetamol 500mg\n```"
	assert.Equal(t, "Take this:\nparacetamol 500mg", StripMarkdown(in))
}

func TestStripMarkdownPlainTextUntouched(t *testing.T) {
	in := "Drink water and rest."
	assert.Equal(t, in, StripMarkdown(in))
}
