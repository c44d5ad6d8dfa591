package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/WahyuSiddarta/Gemini-CHATBOT/services"
)

// fakeGenerator stands in for the Gemini API in tests. Title requests are
// told apart from chat requests by the instruction prefix of the prompt.
type fakeGenerator struct {
	mu sync.Mutex

	titleText   string
	replyText   string
	grounding   *services.GroundingMetadata
	tokens      int
	tokenErr    error
	generateErr error
	// block, when set, makes chat generation wait for ctx to be done.
	block bool

	titleCalls    int
	generateCalls int
	tokenCalls    int
	lastModel     string
	lastPrompt    string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model, prompt string, withSearch bool) (*services.GenerateResult, error) {
	f.mu.Lock()
	isTitle := strings.HasPrefix(prompt, "Generate a single")
	if isTitle {
		f.titleCalls++
	} else {
		f.generateCalls++
		f.lastModel = model
		f.lastPrompt = prompt
	}
	f.mu.Unlock()

	if isTitle {
		return &services.GenerateResult{Text: f.titleText}, nil
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return &services.GenerateResult{Text: f.replyText, Grounding: f.grounding}, nil
}

func (f *fakeGenerator) CountTokens(ctx context.Context, model, text string) (int, error) {
	f.mu.Lock()
	f.tokenCalls++
	f.mu.Unlock()
	if f.tokenErr != nil {
		return 0, f.tokenErr
	}
	return f.tokens, nil
}

var errGeneratorDown = errors.New("generator unavailable")
