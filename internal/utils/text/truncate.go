package text

// Truncate returns the first maxChars characters of text.
//
// Text that already fits is returned unchanged. A non-positive budget yields the
// empty string. The cut never splits a multi-byte character but it may split a
// word: no attempt is made to find a word or sentence boundary.
//
// Truncate is total and idempotent:
//
//	Truncate(Truncate(s, n), n) == Truncate(s, n)
//	CountRunes(Truncate(s, n)) <= max(n, 0)
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if len(text) <= maxChars {
		// Byte length bounds rune count, so this is a cheap exact fit.
		return text
	}

	count := 0
	for i := range text {
		if count == maxChars {
			return text[:i]
		}
		count++
	}
	return text
}

// WasTruncated reports whether Truncate would shorten text under maxChars.
func WasTruncated(text string, maxChars int) bool {
	return CountRunes(text) > maxChars
}
