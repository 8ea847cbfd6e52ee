package reader

import "strings"

// DefaultMarkers are the substrings of a chapter heading such as "第一章".
var DefaultMarkers = []string{"第", "章"}

// Chapter is a detected heading line.
type Chapter struct {
	Line  int
	Title string
}

// DetectChapters returns every line whose trimmed text contains all markers,
// in line order. An empty marker set detects nothing.
func DetectChapters(lines []string, markers []string) []Chapter {
	if len(markers) == 0 {
		return nil
	}
	var chapters []Chapter
	for i, line := range lines {
		title := strings.TrimSpace(line)
		if containsAll(title, markers) {
			chapters = append(chapters, Chapter{Line: i, Title: title})
		}
	}
	return chapters
}

func containsAll(s string, markers []string) bool {
	for _, m := range markers {
		if !strings.Contains(s, m) {
			return false
		}
	}
	return true
}
