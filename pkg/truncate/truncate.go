// Package truncate shortens text to a byte budget without splitting UTF-8
// sequences.
package truncate

import (
	"fmt"
	"unicode/utf8"
)

const markerFormat = "\n[...%d bytes truncated...]\n"

// Bytes returns s shortened to at most max bytes. When trimming is needed,
// the head and tail of the text are kept around an elision marker so both
// ends of the input survive. If the budget is too small to fit the marker,
// the text is cut to a plain prefix instead. The result is valid UTF-8
// whenever s is.
func Bytes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}

	// The marker embeds the omitted byte count, which depends on the
	// marker's own length. Recompute until the digit width settles.
	marker := fmt.Sprintf(markerFormat, len(s)-max)
	for i := 0; i < 3; i++ {
		kept := max - len(marker)
		if kept < 2 {
			break
		}
		next := fmt.Sprintf(markerFormat, len(s)-kept)
		if len(next) == len(marker) {
			break
		}
		marker = next
	}

	kept := max - len(marker)
	if kept < 2 {
		return prefixBytes(s, max)
	}

	head := prefixBytes(s, (kept+1)/2)
	tail := suffixBytes(s, kept-len(head))
	return head + marker + tail
}

// prefixBytes returns the longest prefix of s that is at most n bytes and
// ends on a rune boundary.
func prefixBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n < 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// suffixBytes returns the longest suffix of s that is at most n bytes and
// starts on a rune boundary.
func suffixBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
