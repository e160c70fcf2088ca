package openai

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/smartaisle/backend/internal/domain"
)

// Client generates ingredient descriptions with the OpenAI chat API
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a new description-generation client
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = openai.GPT4
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}
}

// quotaKeywords mark a failure as quota-class. The upstream error type
// does not distinguish quota exhaustion, so the message is inspected.
var quotaKeywords = []string{"quota", "rate limit", "capacity", "billing"}

// isQuotaError reports whether an error is a quota/rate-limit-class failure
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, keyword := range quotaKeywords {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}

// GenerateDescription asks the model for a short, factual description of
// the ingredient in the context of its assigned quality tier. Quota-class
// failures are wrapped with domain.ErrQuotaExceeded so callers can trip
// the sticky flag.
func (c *Client) GenerateDescription(ctx context.Context, ingredientName string, quality domain.Quality) (string, error) {
	prompt := buildPrompt(ingredientName, quality)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
		MaxTokens:   100,
	})
	if err != nil {
		if isQuotaError(err) {
			log.Printf("[AI] Quota-class error for %q: %v", ingredientName, err)
			return "", fmt.Errorf("%w: %v", domain.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationFailure)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt assembles the structured prompt: ingredient, tier, and the
// rubric the classification is based on.
func buildPrompt(ingredientName string, quality domain.Quality) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Provide a brief, factual description (30-50 words) of the ingredient '%s' which has been classified as '%s' quality.\n", ingredientName, quality)
	sb.WriteString("The description should explain its purpose in food, any health considerations, and why it falls under this classification based on the following criteria:\n\n")
	for _, criterion := range domain.HealthCriteria {
		fmt.Fprintf(&sb, "- %s: %s\n", criterion.Name, criterion.Description)
	}
	sb.WriteString("\nKeep the tone informative and objective, avoiding alarmist language. ")
	sb.WriteString("If the ingredient is beneficial, highlight its positive qualities. If it is harmful, provide a neutral explanation of its risks.")
	return sb.String()
}
