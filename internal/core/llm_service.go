package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultModelName = "gemini-2.5-flash"

	// Fallback strings returned when the generation capability is unusable.
	// The "Error:" prefix is the structural signal the API layer checks for;
	// ordinary model output never starts with it.
	FallbackUnavailable   = "Error: The AI service is currently unavailable. Please try again later."
	FallbackEmptyResponse = "Error: Could not generate a response. Please try again."
)

// Generator is the generation capability consumed by ChatService. It exists
// so the orchestrator can be tested with a fake instead of a live client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type LLMService struct {
	client    *genai.Client
	modelName string
}

// NewLLMService builds the Gemini-backed generator. The API key is validated
// here, at construction, rather than in package-level state.
func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client:    client,
		modelName: defaultModelName,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// Generate sends the assembled prompt to Gemini and returns the generated
// text. Capability failures and empty responses are mapped to the fallback
// strings rather than errors; the error return is reserved for conditions
// like context cancellation.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	model := s.client.GenerativeModel(s.modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("Gemini GenerateContent failed: %v", err)
		return FallbackUnavailable, nil
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return FallbackEmptyResponse, nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		log.Println("Gemini response had no usable text parts.")
		return FallbackEmptyResponse, nil
	}

	return responseText.String(), nil
}

// IsFallbackText reports whether generated text is one of the structural
// fallback messages from the generation layer. This is a prefix match on the
// whole string, never a substring search, so ordinary responses that happen
// to discuss errors are not misclassified.
func IsFallbackText(text string) bool {
	return strings.HasPrefix(text, "Error:")
}
