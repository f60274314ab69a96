package browser

import (
	"github.com/playwright-community/playwright-go"

	"github.com/v6582374-netizen/Auto-note/pkg/capture"
	"github.com/v6582374-netizen/Auto-note/pkg/logging"
)

// Page adapts a live Playwright page to capture.Document. Query failures
// degrade to zero values; the collector treats a missing answer the same
// as an empty page region.
type Page struct {
	page playwright.Page
	log  *logging.Logger
}

func newPage(page playwright.Page, log *logging.Logger) *Page {
	return &Page{page: page, log: log}
}

// URL returns the page address.
func (p *Page) URL() string {
	return p.page.URL()
}

// Title returns the document title, or "" when the query fails.
func (p *Page) Title() string {
	title, err := p.page.Title()
	if err != nil {
		p.log.Debugf("title query failed: %v", err)
		return ""
	}
	return title
}

// CanonicalURL returns the page-declared canonical link, or "".
func (p *Page) CanonicalURL() string {
	element, err := p.page.QuerySelector("link[rel='canonical']")
	if err != nil || element == nil {
		return ""
	}
	href, err := element.GetAttribute("href")
	if err != nil {
		return ""
	}
	return href
}

// Icons enumerates every icon-link candidate in document order.
func (p *Page) Icons() []capture.IconCandidate {
	elements, err := p.page.QuerySelectorAll("link[rel*='icon'], link[rel='apple-touch-icon']")
	if err != nil {
		p.log.Debugf("icon query failed: %v", err)
		return nil
	}

	icons := make([]capture.IconCandidate, 0, len(elements))
	for _, element := range elements {
		icons = append(icons, capture.IconCandidate{
			Href:  attr(element, "href"),
			Rel:   attr(element, "rel"),
			Type:  attr(element, "type"),
			Sizes: attr(element, "sizes"),
		})
	}
	return icons
}

// Selection returns the current user text selection.
func (p *Page) Selection() string {
	result, err := p.page.Evaluate("() => window.getSelection()?.toString() ?? ''")
	if err != nil {
		p.log.Debugf("selection query failed: %v", err)
		return ""
	}
	text, ok := result.(string)
	if !ok {
		return ""
	}
	return text
}

// LandmarkText returns the text of the first article/main landmark.
func (p *Page) LandmarkText() string {
	element, err := p.page.QuerySelector("article, main")
	if err != nil || element == nil {
		return ""
	}
	text, err := element.TextContent()
	if err != nil {
		return ""
	}
	return text
}

// BodyText returns the whole rendered page text.
func (p *Page) BodyText() string {
	element, err := p.page.QuerySelector("body")
	if err != nil || element == nil {
		return ""
	}
	text, err := element.InnerText()
	if err != nil {
		return ""
	}
	return text
}

func attr(element playwright.ElementHandle, name string) string {
	value, err := element.GetAttribute(name)
	if err != nil {
		return ""
	}
	return value
}
