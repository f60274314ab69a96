package capture

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	iconSizeCap         = 96
	iconScoreNoSize     = 24
	iconScoreBadSize    = 8
	iconBonusIcon       = 40
	iconBonusShortcut   = 12
	iconBonusAppleTouch = 20
	iconBonusSVG        = 18
	iconBonusFaviconURL = 8
)

// bestIconURL picks the highest-scoring icon candidate, resolved against
// the page URL. Ties keep the first-seen candidate. When no candidate
// qualifies the page origin's /favicon.ico is assumed; if even that URL
// cannot be constructed there is no icon.
func bestIconURL(icons []IconCandidate, pageURL string) string {
	base, baseErr := url.Parse(pageURL)

	bestURL := ""
	bestScore := -1

	for _, icon := range icons {
		resolved := resolveHref(base, baseErr == nil, icon.Href)
		if resolved == "" || strings.HasPrefix(resolved, "data:") {
			continue
		}

		score := iconSizeScore(icon.Sizes)

		rel := strings.ToLower(icon.Rel)
		if strings.Contains(rel, "icon") {
			score += iconBonusIcon
		}
		if strings.Contains(rel, "shortcut") {
			score += iconBonusShortcut
		}
		if strings.Contains(rel, "apple-touch-icon") {
			score += iconBonusAppleTouch
		}
		if strings.Contains(strings.ToLower(icon.Type), "svg") {
			score += iconBonusSVG
		}
		if strings.Contains(resolved, "favicon") {
			score += iconBonusFaviconURL
		}

		if score > bestScore {
			bestScore = score
			bestURL = resolved
		}
	}

	if bestURL != "" {
		return bestURL
	}

	if baseErr != nil || base.Scheme == "" || base.Host == "" {
		return ""
	}
	fallback := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/favicon.ico"}
	return fallback.String()
}

// iconSizeScore derives the base score from a declared sizes attribute:
// the larger dimension of the best WxH token, capped at 96. An absent or
// "any" declaration scores 24; an unparseable one scores 8.
func iconSizeScore(sizes string) int {
	value := strings.ToLower(strings.TrimSpace(sizes))
	if value == "" || value == "any" {
		return iconScoreNoSize
	}

	best := 0
	for _, token := range strings.Fields(value) {
		width, height, ok := parseSizeToken(token)
		if !ok {
			continue
		}
		dim := width
		if height > dim {
			dim = height
		}
		if dim > best {
			best = dim
		}
	}

	if best <= 0 {
		return iconScoreBadSize
	}
	if best > iconSizeCap {
		return iconSizeCap
	}
	return best
}

func parseSizeToken(token string) (int, int, bool) {
	parts := strings.SplitN(token, "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return width, height, true
}

func resolveHref(base *url.URL, haveBase bool, href string) string {
	value := strings.TrimSpace(href)
	if value == "" {
		return ""
	}
	ref, err := url.Parse(value)
	if err != nil {
		return ""
	}
	if !haveBase {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
