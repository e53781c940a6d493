package scraper

import (
	"strings"
)

// SelectorChain is an ordered list of CSS selectors tried as fallbacks.
type SelectorChain []string

// FindFirst returns the trimmed text of the first element of the first
// selector in chain whose first match has non-empty text. Lookup errors count
// as a miss for that selector.
func FindFirst(p Page, chain SelectorChain) (string, bool) {
	for _, sel := range chain {
		text, err := p.FirstText(sel)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, true
		}
	}
	return "", false
}

// FindContaining returns the trimmed text of the first element matching
// selector that contains any marker, compared case-insensitively.
func FindContaining(p Page, selector string, markers []string) (string, bool) {
	texts, err := p.Texts(selector)
	if err != nil {
		return "", false
	}
	for _, text := range texts {
		text = strings.TrimSpace(text)
		lower := strings.ToLower(text)
		for _, m := range markers {
			if m != "" && strings.Contains(lower, strings.ToLower(m)) {
				return text, true
			}
		}
	}
	return "", false
}
