package text

import (
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

var httpURL = mustHTTPURL()

func mustHTTPURL() *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		panic(err)
	}
	return re
}

// ExtractURL returns the first http(s) URL found in pasted input, so a shared
// message like "Read this: https://example.com/a" resolves to the link itself.
// Input without such a URL is returned trimmed and otherwise unchanged.
func ExtractURL(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if found := httpURL.FindString(trimmed); found != "" {
		return found
	}
	return trimmed
}
