package vectordb

import (
	"fmt"
	"sort"
	"strings"
)

// FormatMatches renders query matches as human-readable text for the CLI and
// MCP tool output.
func FormatMatches(matches []Match) string {
	if len(matches) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(matches)))

	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("--- Result %d (distance: %.4f) ---\n", i+1, m.Distance))

		if source, ok := m.Metadata["source"]; ok && source != "" {
			sb.WriteString(fmt.Sprintf("Source: %s\n", source))
		}
		keys := make([]string, 0, len(m.Metadata))
		for k := range m.Metadata {
			if k != "source" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("%s: %s\n", k, m.Metadata[k]))
		}

		sb.WriteString("\n")
		sb.WriteString(m.Document)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
