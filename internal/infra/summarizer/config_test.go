package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"link-summarizer/internal/domain/entity"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"default huggingface", func(s *Settings) {}, ""},
		{"lead needs nothing", func(s *Settings) { s.Backend = BackendLead }, ""},
		{"huggingface without model", func(s *Settings) { s.HuggingFace.Model = "" }, "model is required"},
		{"huggingface zero timeout", func(s *Settings) { s.HuggingFace.Timeout = 0 }, "timeout must be positive"},
		{"openai without key", func(s *Settings) { s.Backend = BackendOpenAI }, "OPENAI_API_KEY"},
		{"openai with key", func(s *Settings) { s.Backend = BackendOpenAI; s.OpenAI.APIKey = "sk-x" }, ""},
		{"claude without key", func(s *Settings) { s.Backend = BackendClaude }, "ANTHROPIC_API_KEY"},
		{"claude with key", func(s *Settings) { s.Backend = BackendClaude; s.Claude.APIKey = "sk-ant-x" }, ""},
		{"unknown backend", func(s *Settings) { s.Backend = "t5" }, "unknown summarizer backend"},
		{"case insensitive", func(s *Settings) { s.Backend = "LEAD" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestCompletionBudget(t *testing.T) {
	assert.Equal(t, 195, completionBudget(entityBounds(40, 130)))
	assert.Equal(t, 75, completionBudget(entityBounds(10, 50)))
}

func entityBounds(lo, hi int) entity.LengthBounds {
	return entity.LengthBounds{Min: lo, Max: hi}
}
