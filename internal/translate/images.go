package translate

import (
	"html"
	"regexp"
	"sort"
	"strings"
)

var (
	imgTagRegex = regexp.MustCompile(`(?i)<img([^>]*)>`)
	imgSrcRegex = regexp.MustCompile(`(?i)\s+src\s*=\s*["']?([^"'\s>]+)["']?`)
)

// Captions maps an image URL to its caption in each language.
type Captions map[string]Fields

// NormalizeImageURL turns a stored image reference into an absolute URL under apiBase.
// Absolute URLs are kept, protocol relative ones get https, bare file names land in /uploads/.
func NormalizeImageURL(raw, apiBase string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}

	apiBase = strings.TrimSuffix(apiBase, "/")
	if strings.HasPrefix(u, "/") {
		return apiBase + u
	}

	u = strings.TrimPrefix(u, "./")
	if !strings.HasPrefix(u, "uploads/") {
		u = "uploads/" + u
	}
	return apiBase + "/" + u
}

// NormalizeImageURLs normalizes all urls, dropping the empty ones.
func NormalizeImageURLs(urls []string, apiBase string) []string {
	normalized := make([]string, 0, len(urls))
	for _, u := range urls {
		if n := NormalizeImageURL(u, apiBase); n != "" {
			normalized = append(normalized, n)
		}
	}
	return normalized
}

// AddImageCaptions wraps every <img> that has a caption, and is not already inside
// a <figure>, into a <figure> with a <figcaption> in lang.
func AddImageCaptions(content string, captions Captions, lang Language, apiBase string) string {
	if content == "" || len(captions) == 0 {
		return content
	}

	lowered := strings.ToLower(content)
	matches := imgTagRegex.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		tag := content[start:end]
		sb.WriteString(content[last:start])
		last = end

		if insideFigure(lowered[:start]) {
			sb.WriteString(tag)
			continue
		}

		srcMatch := imgSrcRegex.FindStringSubmatch(content[m[2]:m[3]])
		if srcMatch == nil {
			sb.WriteString(tag)
			continue
		}

		caption := captions.lookup(srcMatch[1], lang, apiBase)
		if caption == "" {
			sb.WriteString(tag)
			continue
		}

		sb.WriteString(`<figure class="image-with-caption">`)
		sb.WriteString(tag)
		sb.WriteString(`<figcaption class="image-caption">`)
		sb.WriteString(html.EscapeString(caption))
		sb.WriteString(`</figcaption></figure>`)
	}
	sb.WriteString(content[last:])
	return sb.String()
}

func insideFigure(before string) bool {
	open := strings.LastIndex(before, "<figure")
	if open < 0 {
		return false
	}
	return strings.LastIndex(before, "</figure>") < open
}

func (c Captions) lookup(src string, lang Language, apiBase string) string {
	normalized := NormalizeImageURL(src, apiBase)

	fields, ok := c[normalized]
	if !ok {
		fields, ok = c[src]
	}
	if !ok {
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		trimmedNormalized := strings.TrimSuffix(normalized, "/")
		trimmedSrc := strings.TrimSuffix(src, "/")
		for _, k := range keys {
			normalizedKey := NormalizeImageURL(k, apiBase)
			if normalizedKey == normalized || normalizedKey == src ||
				strings.TrimSuffix(normalizedKey, "/") == trimmedNormalized ||
				strings.TrimSuffix(k, "/") == trimmedSrc {
				fields, ok = c[k], true
				break
			}
		}
	}
	if !ok {
		return ""
	}

	caption, _, _ := fields.Pick(lang)
	return caption
}
