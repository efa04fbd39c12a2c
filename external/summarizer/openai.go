package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/foxseedlab/speechrelay/internal/summarizer"
	openai "github.com/sashabaranov/go-openai"
)

const openAIRequestTimeout = 60 * time.Second

type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the public OpenAI endpoint; for Azure it is the resource endpoint.
	BaseURL    string
	Model      string
	Azure      bool
	APIVersion string
	Deployment string
}

// OpenAISummarizer talks to OpenAI or an Azure OpenAI deployment.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISummarizer(cfg OpenAIConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing OpenAI API key")
	}
	var config openai.ClientConfig
	if cfg.Azure {
		if cfg.BaseURL == "" || cfg.Deployment == "" {
			return nil, errors.New("azure openai requires endpoint and deployment")
		}
		config = openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
		if cfg.APIVersion != "" {
			config.APIVersion = cfg.APIVersion
		}
		deployment := cfg.Deployment
		config.AzureModelMapperFunc = func(string) string {
			return deployment
		}
	} else {
		config = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			config.BaseURL = cfg.BaseURL
		}
	}
	config.HTTPClient = &http.Client{Timeout: openAIRequestTimeout}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAISummarizer{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text, lang string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizer.SystemPrompt(lang)},
			{Role: openai.ChatMessageRoleUser, Content: summarizer.UserPrompt(text)},
		},
		Temperature: summarizer.Temperature,
		MaxTokens:   summarizer.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
