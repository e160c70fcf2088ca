package openai

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartaisle/backend/internal/domain"
)

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"insufficient quota", errors.New("error, status code: 429, message: You exceeded your current quota"), true},
		{"rate limit", errors.New("Rate limit reached for gpt-4"), true},
		{"capacity", errors.New("The engine is currently overloaded, capacity issues"), true},
		{"billing", errors.New("billing hard limit has been reached"), true},
		{"network error", errors.New("dial tcp: connection refused"), false},
		{"auth error", errors.New("invalid api key"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isQuotaError(tt.err))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("high fructose corn syrup", domain.QualityPoor)

	assert.Contains(t, prompt, "high fructose corn syrup")
	assert.Contains(t, prompt, "'poor' quality")

	// Every criterion of the rubric appears in the prompt
	for _, criterion := range domain.HealthCriteria {
		assert.Contains(t, prompt, criterion.Name)
	}

	assert.True(t, strings.HasPrefix(prompt, "Provide a brief, factual description"))
}

func TestNewClientDefaultsModel(t *testing.T) {
	client := NewClient("test-key", "")
	assert.NotEmpty(t, client.model)

	custom := NewClient("test-key", "gpt-4o-mini")
	assert.Equal(t, "gpt-4o-mini", custom.model)
}
