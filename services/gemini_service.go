package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Generator is the slice of the Gemini API the chat pipeline depends on.
type Generator interface {
	GenerateContent(ctx context.Context, model, prompt string, withSearch bool) (*GenerateResult, error)
	CountTokens(ctx context.Context, model, text string) (int, error)
}

// GenerateResult is one model response: the concatenated candidate text plus
// the grounding metadata attached when search grounding was used.
type GenerateResult struct {
	Text      string
	Grounding *GroundingMetadata
}

// GroundingMetadata carries the search sources backing a grounded response.
type GroundingMetadata struct {
	GroundingChunks []GroundingChunk `json:"groundingChunks"`
}

// GroundingChunk is one retrieved source. Web is nil for non-web chunks.
type GroundingChunk struct {
	Web *WebSource `json:"web"`
}

type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata *GroundingMetadata `json:"groundingMetadata"`
	} `json:"candidates"`
}

type countTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}

// GeminiService talks to the Gemini REST API.
type GeminiService struct {
	client *resty.Client
	apiKey string
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		client: resty.New(),
		apiKey: apiKey,
	}
}

// GenerateContent calls model:generateContent with a single text prompt.
// With withSearch the request carries the google_search tool so the response
// includes grounding metadata. The request is aborted when ctx is cancelled.
func (g *GeminiService) GenerateContent(ctx context.Context, model, prompt string, withSearch bool) (*GenerateResult, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	if withSearch {
		body["tools"] = []map[string]interface{}{
			{"google_search": map[string]interface{}{}},
		}
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", g.apiKey).
		SetBody(body).
		Post(fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, model))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("gemini generateContent failed, status: %d", resp.StatusCode())
	}

	var result generateContentResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %v", err)
	}
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in gemini response")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return &GenerateResult{
		Text:      text.String(),
		Grounding: result.Candidates[0].GroundingMetadata,
	}, nil
}

// CountTokens calls model:countTokens and returns the estimate for text.
func (g *GeminiService) CountTokens(ctx context.Context, model, text string) (int, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": text}}},
		},
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", g.apiKey).
		SetBody(body).
		Post(fmt.Sprintf("%s/%s:countTokens", geminiBaseURL, model))
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("gemini countTokens failed, status: %d", resp.StatusCode())
	}

	var result countTokensResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return 0, fmt.Errorf("failed to parse gemini response: %v", err)
	}
	return result.TotalTokens, nil
}
