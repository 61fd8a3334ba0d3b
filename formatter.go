package secguide

import "strings"

// FormatContext renders passages as a single context block for answer
// generation. Each passage is rendered as URL, Title and Content lines;
// passages are separated by blank lines.
func FormatContext(passages []*Passage) string {
	if len(passages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, "URL: "+p.URL+"\nTitle: "+p.Title+"\nContent: "+p.Content)
	}

	return strings.Join(parts, "\n\n")
}
