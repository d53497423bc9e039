package text

import "strings"

// NormalizeParagraphs trims every line, collapses runs of blank lines into a
// single paragraph break and trims the result. Extracted article text often
// carries the indentation and spacing of the source markup.
func NormalizeParagraphs(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	var b strings.Builder
	b.Grow(len(s))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			if blank {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		blank = false
		b.WriteString(line)
	}
	return b.String()
}
