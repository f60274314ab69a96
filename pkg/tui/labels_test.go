package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Research", "Research"},
		{"trimmed", "  Research  ", "Research"},
		{"internal runs collapsed", "machine \t learning\n papers", "machine learning papers"},
		{"empty", "   ", ""},
		{"capped at forty runes", strings.Repeat("a", 60), strings.Repeat("a", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabel(tt.input))
		})
	}
}

func TestNormalizeCandidates(t *testing.T) {
	t.Run("drops empties and duplicates", func(t *testing.T) {
		got := normalizeCandidates([]string{"ml", "  ", "ml", " papers "}, maxTags)
		assert.Equal(t, []string{"ml", "papers"}, got)
	})

	t.Run("caps the list", func(t *testing.T) {
		in := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		got := normalizeCandidates(in, maxCategories)
		assert.Len(t, got, maxCategories)
		assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, got)
	})

	t.Run("duplicates after normalization collapse", func(t *testing.T) {
		got := normalizeCandidates([]string{"deep  learning", "deep learning"}, maxTags)
		assert.Equal(t, []string{"deep learning"}, got)
	})
}
