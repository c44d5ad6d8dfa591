package services

import (
	"fmt"
	"strings"
)

// ExtractCitations builds a bibliography from the grounding metadata of a
// generated response. Chunk indices are positional and 1-based: a chunk
// without a web URI is skipped but still consumes its index slot, so the
// numbers line up with the [n] references the model was instructed to emit.
// Returns "" when there is nothing to cite.
func ExtractCitations(result *GenerateResult) string {
	if result == nil || result.Grounding == nil || len(result.Grounding.GroundingChunks) == 0 {
		return ""
	}

	var lines []string
	for i, chunk := range result.Grounding.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%d] %s", i+1, chunk.Web.URI))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Sources:\n" + strings.Join(lines, "\n")
}
