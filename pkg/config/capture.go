package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

const (
	// SectionIDCapture is the identifier for the capture settings section
	SectionIDCapture = "capture"

	// DefaultMaxChars is the default page text budget per capture.
	DefaultMaxChars = 50000

	// MinMaxChars and MaxMaxChars bound the configurable text budget.
	MinMaxChars = 1000
	MaxMaxChars = 200000

	// maxExcludedPatterns caps the excluded-URL pattern list.
	maxExcludedPatterns = 200
)

// CaptureSection manages page capture settings: the text budget and the
// list of URL patterns that must never be captured.
type CaptureSection struct {
	MaxChars            int      `yaml:"max_chars"`
	ExcludedURLPatterns []string `yaml:"excluded_url_patterns"`

	compiled []glob.Glob
	mu       sync.RWMutex
}

// NewCaptureSection creates a capture section with default settings.
func NewCaptureSection() *CaptureSection {
	return &CaptureSection{
		MaxChars:            DefaultMaxChars,
		ExcludedURLPatterns: []string{},
	}
}

// ID returns the section identifier.
func (s *CaptureSection) ID() string {
	return SectionIDCapture
}

// Title returns the section title.
func (s *CaptureSection) Title() string {
	return "Capture Settings"
}

// Description returns the section description.
func (s *CaptureSection) Description() string {
	return "Configure the page text budget and URL patterns excluded from capture."
}

// Data returns the current configuration data.
func (s *CaptureSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patterns := make([]string, len(s.ExcludedURLPatterns))
	copy(patterns, s.ExcludedURLPatterns)

	return map[string]any{
		"max_chars":             s.MaxChars,
		"excluded_url_patterns": patterns,
	}
}

// SetData updates the configuration from the provided data, clamping
// values into their valid ranges rather than rejecting them.
func (s *CaptureSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "max_chars":
			n, ok := toInt(value)
			if !ok {
				return fmt.Errorf("invalid value type for max_chars: expected int, got %T", value)
			}
			s.MaxChars = ClampMaxChars(n)
		case "excluded_url_patterns":
			patterns, ok := toStringSlice(value)
			if !ok {
				return fmt.Errorf("invalid value type for excluded_url_patterns: expected string list, got %T", value)
			}
			s.ExcludedURLPatterns = normalizePatterns(patterns)
			s.compiled = nil
		}
	}

	return nil
}

// Validate checks that every excluded pattern compiles.
func (s *CaptureSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.MaxChars < MinMaxChars || s.MaxChars > MaxMaxChars {
		return fmt.Errorf("max_chars %d out of range [%d, %d]", s.MaxChars, MinMaxChars, MaxMaxChars)
	}
	for _, p := range s.ExcludedURLPatterns {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid excluded URL pattern %q: %w", p, err)
		}
	}
	return nil
}

// Reset restores default settings.
func (s *CaptureSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.MaxChars = DefaultMaxChars
	s.ExcludedURLPatterns = []string{}
	s.compiled = nil
}

// GetMaxChars returns the clamped capture text budget.
func (s *CaptureSection) GetMaxChars() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MaxChars
}

// IsExcluded reports whether the URL matches any excluded pattern.
// Patterns that fail to compile are skipped.
func (s *CaptureSection) IsExcluded(url string) bool {
	s.mu.Lock()
	if s.compiled == nil {
		s.compiled = make([]glob.Glob, 0, len(s.ExcludedURLPatterns))
		for _, p := range s.ExcludedURLPatterns {
			g, err := glob.Compile(p)
			if err != nil {
				continue
			}
			s.compiled = append(s.compiled, g)
		}
	}
	compiled := s.compiled
	s.mu.Unlock()

	for _, g := range compiled {
		if g.Match(url) {
			return true
		}
	}
	return false
}

// ClampMaxChars forces a text budget into the supported range.
func ClampMaxChars(n int) int {
	if n < MinMaxChars {
		return MinMaxChars
	}
	if n > MaxMaxChars {
		return MaxMaxChars
	}
	return n
}

// normalizePatterns trims entries, drops empties and duplicates, and
// caps the list length.
func normalizePatterns(patterns []string) []string {
	seen := make(map[string]struct{}, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
		if len(out) == maxExcludedPatterns {
			break
		}
	}
	return out
}

// toInt accepts the numeric types YAML decoding may produce.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// toStringSlice accepts both []string and the []any YAML produces.
func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}
