package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const openAISystemPrompt = "You are an assistant for a recruiting platform. Follow the output format exactly."

// OpenAIClient implements Client for OpenAI chat completions
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config == nil {
		config = DefaultOpenAIConfig()
	}

	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	return &OpenAIClient{
		client: &client,
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	params, err := c.params(prompt, tier)
	if err != nil {
		return "", err
	}
	return c.complete(ctx, params)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	params, err := c.params(prompt, tier)
	if err != nil {
		return "", err
	}
	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONObject: &openai.ResponseFormatJSONObjectParam{
			Type: constant.JSONObject("json_object"),
		},
	}

	text, err := c.complete(ctx, params)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) params(prompt string, tier ModelTier) (openai.ChatCompletionNewParams, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("no model configured for tier %s", tier)
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAISystemPrompt),
			openai.UserMessage(prompt),
		},
		Model:       modelName,
		Temperature: openai.Float(float64(c.config.Temperature)),
	}
	if c.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.config.MaxTokens))
	}
	return params, nil
}

func (c *OpenAIClient) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no choices in openai response")
	}
	return completion.Choices[0].Message.Content, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the OpenAI client holds no long-lived resources.
func (c *OpenAIClient) Close() error {
	return nil
}
