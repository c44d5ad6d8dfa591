package services

import (
	"context"
	"strings"
)

const titleInstruction = "Generate a single, short, and concise title (max 5 words, no explanation) for this conversation: "

// TitleService generates a chat title from the first user message. Titles
// always use the cheapest tier.
type TitleService struct {
	gen Generator
}

func NewTitleService(gen Generator) *TitleService {
	return &TitleService{gen: gen}
}

// Generate asks the model for a title and sanitizes whatever comes back.
func (t *TitleService) Generate(ctx context.Context, content string) (string, error) {
	result, err := t.gen.GenerateContent(ctx, TierLite.Model(), titleInstruction+content, false)
	if err != nil {
		return "", err
	}
	return SanitizeTitle(result.Text), nil
}

// SanitizeTitle normalizes raw model output into a stored title: first line
// only, leading bullet/number markers stripped, at most five words rejoined
// with single spaces.
func SanitizeTitle(raw string) string {
	line := strings.TrimSpace(raw)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimLeft(line, "-*0123456789. \t")
	words := strings.Fields(line)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}
