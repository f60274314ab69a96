package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/v6582374-netizen/Auto-note/pkg/capture"
)

// HTMLDocument is a capture.Document over a static HTML snapshot. It
// applies the same extraction rules as the live page adapter and backs
// offline captures and tests.
type HTMLDocument struct {
	url       string
	title     string
	canonical string
	icons     []capture.IconCandidate
	landmark  string
	body      string
}

// ParseHTML builds an HTMLDocument from raw HTML and the page URL.
func ParseHTML(rawHTML, pageURL string) (*HTMLDocument, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc := &HTMLDocument{url: pageURL}
	doc.scan(root)
	return doc, nil
}

func (d *HTMLDocument) URL() string                    { return d.url }
func (d *HTMLDocument) Title() string                  { return d.title }
func (d *HTMLDocument) CanonicalURL() string           { return d.canonical }
func (d *HTMLDocument) Icons() []capture.IconCandidate { return d.icons }

// Selection is always empty for a static snapshot.
func (d *HTMLDocument) Selection() string { return "" }

func (d *HTMLDocument) LandmarkText() string { return d.landmark }
func (d *HTMLDocument) BodyText() string     { return d.body }

func (d *HTMLDocument) scan(n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "title":
			if d.title == "" {
				d.title = strings.TrimSpace(textOf(n))
			}
		case "link":
			d.scanLink(n)
		case "article", "main":
			if d.landmark == "" {
				d.landmark = textOf(n)
			}
		case "body":
			d.body = textOf(n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.scan(c)
	}
}

func (d *HTMLDocument) scanLink(n *html.Node) {
	rel := strings.ToLower(attrValue(n, "rel"))
	href := attrValue(n, "href")

	switch {
	case rel == "canonical":
		if d.canonical == "" {
			d.canonical = href
		}
	case strings.Contains(rel, "icon"):
		d.icons = append(d.icons, capture.IconCandidate{
			Href:  href,
			Rel:   attrValue(n, "rel"),
			Type:  attrValue(n, "type"),
			Sizes: attrValue(n, "sizes"),
		})
	}
}

// attrValue returns the value of the named attribute on a node, or ""
// if the attribute is not present.
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// textOf concatenates the visible text under a node, skipping script,
// style, and other non-rendered elements.
func textOf(n *html.Node) string {
	var builder strings.Builder
	collectText(n, &builder)
	return builder.String()
}

func collectText(n *html.Node, builder *strings.Builder) {
	if n.Type == html.CommentNode {
		return
	}
	if n.Type == html.ElementNode && isHiddenElement(strings.ToLower(n.Data)) {
		return
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if builder.Len() > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}
}

func isHiddenElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "iframe", "svg":
		return true
	}
	return false
}
