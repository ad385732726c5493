package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// printJSON writes v to stdout for the --json flag.
func printJSON(v any) error {
	return fprintJSON(os.Stdout, v)
}

// fprintJSON writes v to w as two-space-indented JSON with a trailing
// newline, the shape every --json command emits.
func fprintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
