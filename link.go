package secguide

import (
	"net/url"
	"path"
	"strings"
)

// skipPrefixes are href prefixes that never lead to a same-origin page.
var skipPrefixes = []string{
	"mailto:", "tel:", "#", "javascript:",
	"http://", "https://", "//",
}

// skipExtensions are file suffixes of documents, spreadsheets and images.
var skipExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ShouldFollow reports whether an href discovered in page markup is worth
// following. Only same-origin relative links to HTML pages pass: empty hrefs,
// hrefs carrying any scheme, protocol-relative URLs, in-page
// anchors and links to binary documents are rejected.
func ShouldFollow(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}

	lower := strings.ToLower(href)
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	// Any other scheme is not a relative link either.
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" {
		return false
	}

	// Match the extension on the path only, ignoring query and fragment.
	p := lower
	if i := strings.IndexAny(p, "?#"); i != -1 {
		p = p[:i]
	}
	return !skipExtensions[path.Ext(p)]
}
