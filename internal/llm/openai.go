package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// openaiClient implements LLMClient against any OpenAI-compatible chat
// completions API.
type openaiClient struct {
	cfg      LLMConfig
	client   openai.Client
	observer Observer
}

// NewOpenAIClient creates an LLMClient for cfg.Endpoint using the OpenAI SDK.
// SDK-level retries are disabled; retries follow cfg.MaxRetries.
func NewOpenAIClient(cfg LLMConfig, observer Observer, opts ...option.RequestOption) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.Endpoint))
	}
	reqOpts = append(reqOpts, opts...)

	return &openaiClient{
		cfg:      cfg,
		client:   openai.NewClient(reqOpts...),
		observer: observer,
	}
}

func (c *openaiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := c.cfg.taskParams(req)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.cfg.Model),
		Messages:    messages,
		Temperature: openai.Float(temp),
	}
	if maxTok > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTok))
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	return generateWithRetry(ctx, c.cfg, c.observer, req.Task, func(ctx context.Context) (*GenerateResponse, error) {
		completion, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, mapOpenAIError(err)
		}
		if len(completion.Choices) == 0 {
			return nil, fmt.Errorf("%w: completion has no choices", ErrInvalidOutput)
		}
		return &GenerateResponse{
			Text:  completion.Choices[0].Message.Content,
			Model: completion.Model,
		}, nil
	})
}

func (c *openaiClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	page, err := c.client.Models.List(ctx)
	return err == nil && page != nil
}

// mapOpenAIError turns SDK API errors into statusError so retry decisions
// match the Ollama client.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &statusError{StatusCode: apiErr.StatusCode, Body: apiErr.Error()}
	}
	return err
}
