package textutil

import (
	"fmt"
	"strings"
)

// Delimited returns the first substring of s enclosed by lDelim and rDelim.
// For example Delimited("[test]", "[", "]") returns "test".
func Delimited(s, lDelim, rDelim string) (string, error) {
	leftIdx := strings.Index(s, lDelim)
	if leftIdx < 0 {
		return "", fmt.Errorf("left delimiter %q not found", lDelim)
	}
	start := leftIdx + len(lDelim)
	rightIdx := strings.Index(s[start:], rDelim)
	if rightIdx < 0 {
		return "", fmt.Errorf("right delimiter %q not found", rDelim)
	}
	return s[start : start+rightIdx], nil
}
