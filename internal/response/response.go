// Package response checks raw model output for a JSON array.
//
// The only repair attempted is dropping whatever precedes the first '['.
// Truncated bodies, trailing commas or unterminated strings stay invalid.
package response

import (
	"encoding/json"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
)

const previewLength = 500

// Validate reports whether raw holds a JSON document that starts at its
// first '['. On success the cleaned text is returned; on failure raw is
// returned untouched so the caller can log the true output.
func Validate(raw, label string) (bool, string) {
	logger := log.WithField("context", label)
	logger.Debugf("Raw LLM response: %s...", preview(raw))

	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "[") {
		logger.Warn("Response doesn't start with '[', attempting to extract JSON")
		start := strings.IndexByte(cleaned, '[')
		if start == -1 {
			logger.Error("No JSON array found in response")
			return false, raw
		}
		cleaned = cleaned[start:]
		logger.Infof("Extracted JSON content: %s...", preview(cleaned))
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			logger.Errorf("Invalid JSON at offset %d: %v", syntaxErr.Offset, err)
			logger.Errorf("Problematic content: %s", window(cleaned, int(syntaxErr.Offset)))
		} else {
			logger.Errorf("Invalid JSON: %v", err)
		}
		return false, raw
	}

	return true, cleaned
}

func preview(s string) string {
	if len(s) <= previewLength {
		return s
	}
	return s[:previewLength]
}

// window returns up to 50 bytes either side of offset.
func window(s string, offset int) string {
	lo := max(0, offset-50)
	hi := min(len(s), offset+50)
	if lo > hi {
		return ""
	}
	return s[lo:hi]
}
