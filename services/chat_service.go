package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/WahyuSiddarta/Gemini-CHATBOT/models"
	"github.com/google/uuid"
)

const (
	systemInstruction = "You are a helpful assistant. Respond to the user's message in a clear and concise manner.\n"

	groundedInstruction = systemInstruction +
		"When you use information from the search results, cite the source inline with its [number].\n"

	// LimitReachedMessage is returned once a conversation hits its message
	// cap. It is a normal response, not an error.
	LimitReachedMessage = "This conversation has reached its message limit. Please start a new chat."

	// TimeoutMessage is returned when generation exceeds the wall-clock
	// budget. Also a normal response.
	TimeoutMessage = "The model took too long to respond. Please try again."
)

// ChatResult is the composite outcome of one chat request.
type ChatResult struct {
	Response string
	Title    string
	Model    string
	Citation string
}

// ChatOptions bundles the orchestrator's tunables.
type ChatOptions struct {
	// MaxMessages caps the conversation length; 0 disables the cap.
	MaxMessages int
	// ContextWindow is how many recent messages the prompt includes.
	ContextWindow int
	// Timeout is the wall-clock budget for the title+generation pipeline.
	Timeout time.Duration
	// Grounding enables Google Search grounding and citation extraction.
	Grounding bool
}

// ChatService runs the per-request pipeline: limit check, title generation,
// append, context build, tier selection, generation, reply append, citation
// extraction.
type ChatService struct {
	store  *StoreService
	router *RouterService
	titles *TitleService
	gen    Generator
	opts   ChatOptions
}

func NewChatService(store *StoreService, router *RouterService, titles *TitleService, gen Generator, opts ChatOptions) *ChatService {
	return &ChatService{
		store:  store,
		router: router,
		titles: titles,
		gen:    gen,
		opts:   opts,
	}
}

// HandleMessage processes one inbound user message and returns the reply.
// The whole pipeline for a key runs under that key's mutex, so concurrent
// requests to the same conversation are serialized: no duplicate titles, no
// interleaved appends.
func (c *ChatService) HandleMessage(ctx context.Context, key ConversationKey, msg models.Message) (*ChatResult, error) {
	c.store.LockKey(key)
	defer c.store.UnlockKey(key)

	history := c.store.GetOrCreate(key)
	if c.opts.MaxMessages > 0 && len(history) >= c.opts.MaxMessages {
		title, _ := c.store.Title(key)
		return &ChatResult{Response: LimitReachedMessage, Title: title}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	if _, ok := c.store.Title(key); !ok && len(history) == 0 && msg.Role == "user" {
		title, err := c.titles.Generate(ctx, msg.Content)
		if err != nil {
			if ctx.Err() != nil {
				return &ChatResult{Response: TimeoutMessage}, nil
			}
			return nil, fmt.Errorf("title generation: %w", err)
		}
		if err := c.store.SetTitle(key, title); err != nil {
			log.Printf("set title for %s/%s: %v", key.UserID, key.ChatID, err)
		}
	}

	msg.ID = uuid.New().String()
	msg.Timestamp = time.Now()
	c.store.Append(key, msg)

	prompt := c.buildPrompt(key)
	tier := c.selectTier(ctx, key, msg.Content)

	result, err := c.generate(ctx, tier, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return &ChatResult{Response: TimeoutMessage}, nil
		}
		// No assistant message is appended on failure.
		return nil, fmt.Errorf("generate content: %w", err)
	}

	c.store.Append(key, models.Message{
		ID:        uuid.New().String(),
		Role:      "assistant",
		Content:   result.Text,
		Timestamp: time.Now(),
	})

	title, _ := c.store.Title(key)
	return &ChatResult{
		Response: result.Text,
		Title:    title,
		Model:    tier.Model(),
		Citation: ExtractCitations(result),
	}, nil
}

// buildPrompt assembles the model-facing context: the fixed system
// instruction followed by the last ContextWindow messages as role: content
// lines.
func (c *ChatService) buildPrompt(key ConversationKey) string {
	var b strings.Builder
	if c.opts.Grounding {
		b.WriteString(groundedInstruction)
	} else {
		b.WriteString(systemInstruction)
	}
	for _, m := range c.store.Window(key, c.opts.ContextWindow) {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// selectTier scores the raw user message and gates the top tier on a token
// estimate of the full history. A failed token count degrades to score-only
// routing instead of failing the request.
func (c *ChatService) selectTier(ctx context.Context, key ConversationKey, content string) Tier {
	score := c.router.Score(content)

	tokens, tokensKnown := 0, false
	if score >= c.router.highThreshold {
		var b strings.Builder
		msgs, _ := c.store.History(key)
		for _, m := range msgs {
			b.WriteString(m.Role)
			b.WriteString(": ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
		n, err := c.gen.CountTokens(ctx, TierLite.Model(), b.String())
		if err != nil {
			log.Printf("count tokens for %s/%s: %v", key.UserID, key.ChatID, err)
		} else {
			tokens, tokensKnown = n, true
		}
	}

	return c.router.SelectTier(score, tokens, tokensKnown)
}

// generate invokes the model under the pipeline deadline. The call runs in
// its own goroutine; when the deadline fires we stop waiting and return.
// Context cancellation aborts the underlying HTTP request, and the buffered
// channel lets any late result be dropped without leaking the goroutine.
func (c *ChatService) generate(ctx context.Context, tier Tier, prompt string) (*GenerateResult, error) {
	type genOut struct {
		result *GenerateResult
		err    error
	}
	out := make(chan genOut, 1)
	go func() {
		result, err := c.gen.GenerateContent(ctx, tier.Model(), prompt, c.opts.Grounding)
		out <- genOut{result, err}
	}()

	select {
	case o := <-out:
		return o.result, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
