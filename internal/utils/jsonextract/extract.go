// Package jsonextract locates the first balanced JSON object inside free-form
// model output. Model replies often wrap the payload in prose or code fences;
// the scanner skips everything before the first '{' and returns the substring
// up to the brace that closes it.
//
// The scan is purely syntactic: braces inside JSON string literals are counted
// too. Payloads whose string values embed '{' or '}' can therefore truncate or
// overrun the window. Upstream prompts keep generated values brace-free, so
// the simple scan holds in practice.
package jsonextract

import "strings"

// Extract returns the first balanced {...} block in raw. The second return is
// false when raw contains no '{' or the braces never rebalance (for example a
// truncated reply).
func Extract(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}

	return "", false
}
