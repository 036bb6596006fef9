package reporter

import (
	"encoding/json"
	"fmt"
	"io"
)

// writeJSON writes v to out as indented JSON followed by a newline.
func writeJSON(v any, out io.Writer) error {
	if out == nil {
		return fmt.Errorf("writer is nil")
	}

	// Marshal with pretty printing
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}
