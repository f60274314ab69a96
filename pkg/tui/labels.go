package tui

import "strings"

const (
	// maxLabelRunes caps a rendered chip label.
	maxLabelRunes = 40

	// maxCategories and maxTags cap the candidate chips shown.
	maxCategories = 6
	maxTags       = 12
)

// NormalizeLabel trims a candidate label, collapses internal whitespace
// runs to single spaces, and caps the length. Empty results mean the
// candidate should be dropped.
func NormalizeLabel(label string) string {
	label = strings.Join(strings.Fields(label), " ")
	runes := []rune(label)
	if len(runes) > maxLabelRunes {
		return string(runes[:maxLabelRunes])
	}
	return label
}

// normalizeCandidates cleans a candidate list: labels normalized,
// empties dropped, duplicates removed, list capped.
func normalizeCandidates(candidates []string, limit int) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		label := NormalizeLabel(c)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
		if len(out) == limit {
			break
		}
	}
	return out
}
