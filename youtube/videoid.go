package youtube

import (
	"regexp"

	"github.com/pkg/errors"
)

// ErrNoVideoID is returned when no 11-character video identifier can be
// found in the input.
var ErrNoVideoID = errors.New("no video ID found in URL")

// Patterns are tried in order; the first match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11}).*`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`^([0-9A-Za-z_-]{11})$`),
}

// ExtractVideoID parses an 11-character video identifier out of a URL.
// It accepts watch URLs (?v=), short and embed URLs, and bare IDs.
func ExtractVideoID(url string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(url); match != nil {
			return match[1], nil
		}
	}
	return "", ErrNoVideoID
}
