// Package subtitles turns raw caption payloads (WebVTT or SRT) into plain
// text by stripping headers, cue indices, timing lines and markup.
package subtitles

import (
	"strings"

	"yt-summarizer/errors"
)

const vttHeader = "WEBVTT"

// Parse strips timing and markup lines from a caption payload and joins the
// surviving text lines with single spaces. Parsing already-clean text is a
// no-op.
func Parse(raw string) (string, error) {
	const op = "subtitles.Parse"

	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if skipLine(line) {
			continue
		}
		kept = append(kept, line)
	}

	if len(kept) == 0 {
		return "", errors.NotFound(op, nil, "No text found in captions")
	}

	return strings.Join(kept, " "), nil
}

func skipLine(line string) bool {
	switch {
	case line == "":
		return true
	case line == vttHeader || strings.HasPrefix(line, vttHeader+" "):
		return true
	case strings.Contains(line, "-->"):
		return true
	case isNumeric(line):
		return true
	case strings.HasPrefix(line, "<") || strings.HasPrefix(line, "["):
		return true
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
