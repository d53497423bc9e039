package text_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"link-summarizer/internal/utils/text"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxChars int
		want     string
	}{
		{name: "shorter than budget", input: "hello", maxChars: 10, want: "hello"},
		{name: "exactly budget", input: "hello", maxChars: 5, want: "hello"},
		{name: "cut inside a word", input: "hello world", maxChars: 7, want: "hello w"},
		{name: "zero budget", input: "hello", maxChars: 0, want: ""},
		{name: "negative budget", input: "hello", maxChars: -3, want: ""},
		{name: "empty input", input: "", maxChars: 4, want: ""},
		{name: "multi-byte not split", input: "héllo wörld", maxChars: 8, want: "héllo wö"},
		{name: "CJK by characters", input: "日本語のニュース", maxChars: 3, want: "日本語"},
		{name: "emoji kept whole", input: "👋👋👋", maxChars: 2, want: "👋👋"},
		{name: "byte length over budget but runes fit", input: "日本語", maxChars: 3, want: "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := text.Truncate(tt.input, tt.maxChars)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got), "result must stay valid UTF-8")
		})
	}
}

// TestTruncate_Properties checks idempotence, the length bound and identity over a
// grid of inputs and budgets.
func TestTruncate_Properties(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"The quick brown fox jumps over the lazy dog.",
		strings.Repeat("ab", 2500),
		"混合 text with ünïcödé and emoji 🚀🚀",
	}
	budgets := []int{-10, -1, 0, 1, 2, 7, 40, 4000, 5000, 10000}

	for _, in := range inputs {
		for _, b := range budgets {
			once := text.Truncate(in, b)
			twice := text.Truncate(once, b)

			assert.Equal(t, once, twice, "idempotence: input=%q budget=%d", in, b)
			assert.LessOrEqual(t, text.CountRunes(once), max(b, 0), "bound: input=%q budget=%d", in, b)
			if text.CountRunes(in) <= b {
				assert.Equal(t, in, once, "identity: input=%q budget=%d", in, b)
			}
			assert.True(t, strings.HasPrefix(in, once), "result must be a prefix")
		}
	}
}

func TestTruncate_LongArticle(t *testing.T) {
	article := strings.Repeat("x", 5000)

	got := text.Truncate(article, 4000)

	assert.Len(t, got, 4000)
	assert.Equal(t, article[:4000], got)
	assert.True(t, text.WasTruncated(article, 4000))
	assert.False(t, text.WasTruncated(got, 4000))
}

func BenchmarkTruncate(b *testing.B) {
	article := strings.Repeat("Lorem ipsum dolor sit amet. ", 400)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = text.Truncate(article, 4000)
	}
}
