package capture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v6582374-netizen/Auto-note/pkg/types"
)

// fakeDocument is a canned page for collector tests.
type fakeDocument struct {
	url       string
	title     string
	canonical string
	icons     []IconCandidate
	selection string
	landmark  string
	body      string
}

func (d *fakeDocument) URL() string            { return d.url }
func (d *fakeDocument) Title() string          { return d.title }
func (d *fakeDocument) CanonicalURL() string   { return d.canonical }
func (d *fakeDocument) Icons() []IconCandidate { return d.icons }
func (d *fakeDocument) Selection() string      { return d.selection }
func (d *fakeDocument) LandmarkText() string   { return d.landmark }
func (d *fakeDocument) BodyText() string       { return d.body }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses space runs", "a  \t b", "a b"},
		{"carriage returns become newlines", "a\r\nb", "a\n\nb"},
		{"caps newline runs at two", "a\n\n\n\n\nb", "a\n\nb"},
		{"trims ends", "  padded \n", "padded"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"a  b\r\n\r\nc\t\td\n\n\n\ne",
		"  \t\r\n mixed \r whitespace \n\n\n soup  ",
		"",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestCollectTruncation(t *testing.T) {
	c := &Collector{}
	doc := &fakeDocument{
		url:      "https://example.com/post",
		title:    "Post",
		landmark: strings.Repeat("a", 800),
	}

	payload := c.Collect(doc, "s1", 500)

	assert.True(t, payload.WasTruncated)
	assert.Equal(t, 500, len([]rune(payload.Text)))
	assert.Equal(t, 800, payload.TextChars)

	// Exactly at the limit must not truncate.
	doc.landmark = strings.Repeat("a", 500)
	payload = c.Collect(doc, "s1", 500)
	assert.False(t, payload.WasTruncated)
	assert.Equal(t, 500, payload.TextChars)
}

func TestCollectModes(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		landmark  string
		body      string
		want      types.CaptureMode
	}{
		{"landmark wins", "", "article text", "body text", types.CaptureModeReadability},
		{"body fallback", "", "", "body text", types.CaptureModeDOMText},
		{"selection only", "picked", "", "", types.CaptureModeSelectionOnly},
		{"selection with landmark stays readability", "picked", "article text", "body", types.CaptureModeReadability},
		{"nothing at all", "", "", "", types.CaptureModeDOMText},
	}

	c := &Collector{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &fakeDocument{
				url:       "https://example.com/",
				title:     "t",
				selection: tt.selection,
				landmark:  tt.landmark,
				body:      tt.body,
			}
			payload := c.Collect(doc, "s1", 1000)
			assert.Equal(t, tt.want, payload.CaptureMode)
		})
	}
}

func TestCollectSelectionPrefix(t *testing.T) {
	c := &Collector{}
	doc := &fakeDocument{
		url:       "https://example.com/",
		title:     "t",
		selection: "  picked  ",
		landmark:  "article body",
	}

	payload := c.Collect(doc, "s1", 1000)

	assert.Equal(t, "picked", payload.Selection)
	assert.Equal(t, "picked\n\narticle body", payload.Text)
}

func TestCollectTitleFallsBackToHost(t *testing.T) {
	c := &Collector{}
	doc := &fakeDocument{url: "https://docs.example.com/page", body: "x"}

	payload := c.Collect(doc, "s1", 100)

	assert.Equal(t, "docs.example.com", payload.Title)
	assert.Equal(t, "docs.example.com", payload.Domain)
}

func TestDigest(t *testing.T) {
	t.Run("strong digest is pure and hex", func(t *testing.T) {
		a := StrongDigest("hello")
		b := StrongDigest("hello")
		require.Equal(t, a, b)
		require.Len(t, a, 64)
		require.Equal(t, strings.ToLower(a), a)
	})

	t.Run("empty text digests url and title", func(t *testing.T) {
		c := &Collector{}
		doc := &fakeDocument{url: "https://example.com/x", title: "Empty"}
		payload := c.Collect(doc, "s1", 100)
		assert.Equal(t, StrongDigest("https://example.com/x|Empty"), payload.TextDigest)
	})

	t.Run("weak digest carries marker", func(t *testing.T) {
		c := &Collector{Digest: WeakDigest}
		doc := &fakeDocument{url: "https://example.com/", title: "t", body: "content"}
		payload := c.Collect(doc, "s1", 100)
		assert.True(t, strings.HasPrefix(payload.TextDigest, "fallback_"))
		assert.Equal(t, WeakDigest("content"), payload.TextDigest)
	})
}

func TestCollectEndToEnd(t *testing.T) {
	c := &Collector{}
	doc := &fakeDocument{
		url:      "https://example.com/paper",
		title:    "A Paper",
		landmark: strings.Repeat("x", 800),
		body:     strings.Repeat("y", 2000),
	}

	payload := c.Collect(doc, "s1", 500)

	require.Equal(t, "s1", payload.SessionID)
	require.Equal(t, types.CaptureModeReadability, payload.CaptureMode)
	require.True(t, payload.WasTruncated)
	require.Equal(t, 500, len([]rune(payload.Text)))
}
