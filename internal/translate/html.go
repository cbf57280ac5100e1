package translate

import (
	"fmt"
	"regexp"
	"strings"
)

const placeholderPrefix = "__HTML_TAG_PLACEHOLDER_"

var (
	embeddedTagRegex = regexp.MustCompile(`(?i)<img[^>]*>|<video[^>]*>|<iframe[^>]*>`)

	protectedTags = []struct {
		kind  string
		regex *regexp.Regexp
	}{
		{kind: "IMG", regex: regexp.MustCompile(`(?i)<img[^>]*>`)},
		{kind: "VIDEO", regex: regexp.MustCompile(`(?is)<video[^>]*>.*?</video>`)},
		{kind: "IFRAME", regex: regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)},
	}
)

type placeholder struct {
	key      string
	original string
}

// protectTags swaps media tags for opaque placeholders the translation endpoint leaves alone.
func protectTags(html string) (string, []placeholder) {
	if !embeddedTagRegex.MatchString(html) {
		return html, nil
	}

	var placeholders []placeholder
	counter := 0
	for _, tag := range protectedTags {
		html = tag.regex.ReplaceAllStringFunc(html, func(match string) string {
			key := fmt.Sprintf("%s%s_%d__", placeholderPrefix, tag.kind, counter)
			counter++
			placeholders = append(placeholders, placeholder{key: key, original: match})
			return key
		})
	}
	return html, placeholders
}

func restoreTags(translated string, placeholders []placeholder) string {
	// later placeholders can contain earlier ones (an img inside a video), so restore backwards
	for i := len(placeholders) - 1; i >= 0; i-- {
		translated = strings.ReplaceAll(translated, placeholders[i].key, placeholders[i].original)
	}
	return translated
}
