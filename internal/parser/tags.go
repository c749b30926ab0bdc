package parser

import "strings"

// NormalizeTags splits comma-separated tag text into trimmed, non-empty names,
// dropping duplicates while keeping first-seen order. A leading '#' is stripped.
func NormalizeTags(inputs ...string) []string {
	seen := make(map[string]bool)
	tags := []string{}

	for _, input := range inputs {
		for _, part := range strings.Split(input, ",") {
			tag := strings.TrimPrefix(strings.TrimSpace(part), "#")
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	return tags
}
