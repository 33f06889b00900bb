package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"google.golang.org/genai"
)

// Completer turns a prompt into a single free-text completion.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder turns text into a vector for the analysis index.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type GeminiService interface {
	Completer
	Embedder
}

type GeminiOptions struct {
	APIKey          string
	Model           string
	EmbedModel      string
	Temperature     float32
	MaxOutputTokens int32
}

type geminiService struct {
	client          *genai.Client
	modelName       string
	embedModel      string
	temperature     float32
	maxOutputTokens int32
}

func NewGeminiService(ctx context.Context, opts GeminiOptions) (GeminiService, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:          client,
		modelName:       opts.Model,
		embedModel:      opts.EmbedModel,
		temperature:     opts.Temperature,
		maxOutputTokens: opts.MaxOutputTokens,
	}, nil
}

// Complete implements Completer. One request, one response: no retry and no
// deadline beyond what ctx carries.
func (g *geminiService) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxOutputTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v", err)
		return "", &BackendError{Op: "generate content", Err: err}
	}

	if resp == nil {
		return "", &BackendError{Op: "generate content", Err: errors.New("nil response")}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		log.Printf("⚠️ Gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
		return "", &BackendError{
			Op:  "generate content",
			Err: fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
		}
	}

	text := resp.Text()
	if text == "" {
		return "", &BackendError{Op: "generate content", Err: errors.New("no text content in response")}
	}

	log.Printf("📊 Gemini response received: %d characters", len(text))
	return text, nil
}

const maxEmbedBytes = 40000

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Embed implements Embedder.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	text = truncateUTF8(text, maxEmbedBytes)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, &BackendError{Op: "embed content", Err: err}
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, &BackendError{Op: "embed content", Err: errors.New("empty embedding result")}
	}

	return result.Embeddings[0].Values, nil
}
