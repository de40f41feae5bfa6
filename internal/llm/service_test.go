package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "plain json",
			content:  `{"level": 3}`,
			expected: `{"level": 3}`,
		},
		{
			name:     "json fence",
			content:  "```json\n{\"level\": 3}\n```",
			expected: `{"level": 3}`,
		},
		{
			name:     "bare fence",
			content:  "```\n{\"level\": 3}\n```",
			expected: `{"level": 3}`,
		},
		{
			name:     "surrounding whitespace",
			content:  "  \n{\"level\": 3}\n  ",
			expected: `{"level": 3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(extractJSON(tt.content)))
		})
	}
}

func TestExtractJSONOutputParses(t *testing.T) {
	content := "```json\n{\"level\": 2, \"confidence\": 0.9, \"keywords\": [\"tired\"], \"sentiment\": \"negative\", \"emotions\": [\"exhausted\"]}\n```"

	var analysis models.MoodAnalysis
	require.NoError(t, json.Unmarshal(extractJSON(content), &analysis))

	assert.Equal(t, models.MoodLow, analysis.Level)
	assert.Equal(t, 0.9, analysis.Confidence)
	assert.Equal(t, []string{"tired"}, analysis.Keywords)
	assert.Equal(t, models.SentimentNegative, analysis.Sentiment)
}
