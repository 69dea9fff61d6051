package youtube

import "regexp"

// Ordered by priority; the first pattern that matches wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})(?:[?&]|$)`),
	regexp.MustCompile(`youtu\.be/([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`^([0-9A-Za-z_-]{11})$`),
}

// ExtractVideoID returns the 11-character video id contained in s, which may
// be a watch URL, a short youtu.be link, an embed path or a bare id.
func ExtractVideoID(s string) (string, bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(s); len(m) == 2 {
			return m[1], true
		}
	}
	return "", false
}
