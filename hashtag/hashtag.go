// Package hashtag extracts hashtags from post content.
package hashtag

import (
	"strings"
	"unicode"
)

// Extract scans content for #tags and returns them lowercased, without the
// leading #, deduplicated in order of first appearance. A tag runs over
// letters, digits and underscores; a bare "#" yields nothing.
func Extract(content string) []string {
	var (
		tags []string
		seen = map[string]struct{}{}
	)

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}

		j := i + 1
		for j < len(runes) && isTagRune(runes[j]) {
			j++
		}

		if j == i+1 {
			continue
		}

		tag := strings.ToLower(string(runes[i+1 : j]))
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
		i = j - 1
	}

	return tags
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
