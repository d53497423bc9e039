package summarizer

import (
	"context"
	"strings"
	"time"
	"unicode"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/usecase/summarize"
)

// Lead is an offline extractive summarizer: it returns the article's leading
// sentences within the requested length. News copy puts the key facts first,
// which makes the lead a usable baseline for development and tests. It needs no
// network access and is deterministic.
type Lead struct {
	recorder MetricsRecorder
}

var _ summarize.Model = (*Lead)(nil)

// abbreviations that end with a period without ending a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
	"st": true, "gov": true, "sen": true, "rep": true, "gen": true, "col": true, "lt": true,
	"no": true, "vs": true, "etc": true, "inc": true, "corp": true, "ltd": true, "co": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "aug": true, "sept": true, "sep": true,
	"oct": true, "nov": true, "dec": true, "u.s": true, "u.k": true, "e.g": true, "i.e": true,
}

// NewLead creates the lead-sentence backend.
func NewLead(recorder MetricsRecorder) *Lead {
	if recorder == nil {
		recorder = NewPrometheusMetrics()
	}
	return &Lead{recorder: recorder}
}

// Name implements summarize.Model.
func (l *Lead) Name() string {
	return BackendLead
}

// Summarize implements summarize.Model. Bounds are read as model tokens and
// converted at roughly three words per four tokens.
func (l *Lead) Summarize(ctx context.Context, input string, bounds entity.LengthBounds) (string, error) {
	if err := checkInput(BackendLead, input, bounds); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	summary := leadSummary(input, bounds)
	l.recorder.RecordSummary(BackendLead, len([]rune(summary)), time.Since(start))
	return summary, nil
}

func leadSummary(input string, bounds entity.LengthBounds) string {
	maxWords := max(bounds.Max*3/4, 1)
	minWords := min(bounds.Min*3/4, maxWords)
	target := (minWords + maxWords) / 2

	var picked []string
	total := 0
	for _, sentence := range splitSentences(input) {
		words := strings.Fields(sentence)
		if total+len(words) > maxWords {
			if total == 0 {
				picked = append(picked, strings.Join(words[:maxWords], " "))
			}
			break
		}
		picked = append(picked, strings.Join(words, " "))
		total += len(words)
		if total >= target {
			break
		}
	}
	return strings.Join(picked, " ")
}

// splitSentences splits text at sentence-ending punctuation followed by
// whitespace. Paragraph breaks always end a sentence.
func splitSentences(s string) []string {
	var sentences []string
	for _, paragraph := range strings.Split(s, "\n") {
		runes := []rune(strings.TrimSpace(paragraph))
		begin := 0
		for i := 0; i < len(runes); i++ {
			if !isTerminal(runes[i]) {
				continue
			}
			end := i + 1
			for end < len(runes) && isCloser(runes[end]) {
				end++
			}
			if end < len(runes) && !unicode.IsSpace(runes[end]) {
				continue
			}
			if runes[i] == '.' && isAbbreviation(runes[begin:i]) {
				continue
			}
			if sentence := strings.TrimSpace(string(runes[begin:end])); sentence != "" {
				sentences = append(sentences, sentence)
			}
			begin = end
			i = end - 1
		}
		if rest := strings.TrimSpace(string(runes[begin:])); rest != "" {
			sentences = append(sentences, rest)
		}
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == '”' || r == '’' || isTerminal(r)
}

// isAbbreviation reports whether the word before a period is a known abbreviation
// or a single letter initial.
func isAbbreviation(before []rune) bool {
	start := len(before)
	for start > 0 && !unicode.IsSpace(before[start-1]) {
		start--
	}
	word := strings.ToLower(strings.TrimLeft(string(before[start:]), "(\"'“‘"))
	if len([]rune(word)) == 1 && unicode.IsLetter([]rune(word)[0]) {
		return true
	}
	return abbreviations[word]
}
