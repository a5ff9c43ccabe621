// Package render turns extraction results into display text
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Format indents a JSON result with two spaces. Key order is kept as the
// backend sent it.
func Format(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", errors.New("empty result")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("invalid result JSON: %w", err)
	}
	return buf.String(), nil
}
