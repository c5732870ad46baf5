package stt

import "strings"

// redactSecret scrubs the API key from text destined for logs or errors.
func redactSecret(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "[REDACTED]")
}
