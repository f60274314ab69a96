package capture

// Document is a read-only view of the rendered page. Implementations
// degrade to zero values instead of returning errors: a page that cannot
// answer a question simply has nothing there.
type Document interface {
	// URL returns the page address.
	URL() string
	// Title returns the document title, possibly empty.
	Title() string
	// CanonicalURL returns the page-declared canonical link, or "".
	CanonicalURL() string
	// Icons returns every icon-link candidate in document order.
	Icons() []IconCandidate
	// Selection returns the current user text selection, or "".
	Selection() string
	// LandmarkText returns the text of the first article/main landmark,
	// or "" when the page has none.
	LandmarkText() string
	// BodyText returns the whole rendered page text.
	BodyText() string
}

// IconCandidate is one <link> icon declaration as found on the page.
// Href may be relative; the collector resolves it against the page URL.
type IconCandidate struct {
	Href  string
	Rel   string
	Type  string
	Sizes string
}
