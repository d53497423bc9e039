// Package text provides utilities for text processing and analysis.
// Lengths are measured in Unicode characters (runes), never bytes, so that
// article text in any script is counted and cut consistently.
package text

import "unicode/utf8"

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")     // 5
//	CountRunes("héllo")     // 5 (6 bytes)
//	CountRunes("")          // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}
