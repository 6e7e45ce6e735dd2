package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"legalextract/internal/config"
	"legalextract/internal/domain"
	"legalextract/internal/llm"
	"legalextract/internal/port"
)

const providerName = "vertex"

// ContentGenerator is the part of *genai.GenerativeModel the client uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client implements port.ModelClient using Vertex AI. The model is configured
// once at construction and never changes afterwards.
type Client struct {
	model      string
	generator  ContentGenerator
	baseClient *genai.Client
}

// NewClient creates a Vertex AI client authenticated with application default
// credentials.
func NewClient(ctx context.Context, cfg *config.ProviderConfig) (*Client, error) {
	if cfg.Project == "" || cfg.Region == "" {
		return nil, errors.New("vertex.NewClient: project and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, cfg.Project, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	modelName := cfg.DefaultModel
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	model := baseClient.GenerativeModel(modelName)
	Configure(model, cfg)

	return &Client{model: modelName, generator: model, baseClient: baseClient}, nil
}

// NewClientWithGenerator wraps an already configured generator (for testing).
func NewClientWithGenerator(model string, generator ContentGenerator) *Client {
	return &Client{model: model, generator: generator}
}

// Factory adapts NewClient to llm.ProviderFactory.
func Factory(ctx context.Context, cfg *config.ProviderConfig) (port.ModelClient, error) {
	return NewClient(ctx, cfg)
}

// Configure applies the extraction generation settings to model.
func Configure(model *genai.GenerativeModel, cfg *config.ProviderConfig) {
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	model.SetTemperature(float32(cfg.Temperature))
	model.SetTopP(1)
	model.SetTopK(32)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}
}

func (c *Client) Generate(ctx context.Context, in port.ModelRequest) (*port.ModelResponse, error) {
	parts := []genai.Part{genai.Text(in.Instruction)}
	if in.Attachment != nil {
		parts = append(parts, genai.Blob{MIMEType: in.Attachment.MIMEType, Data: in.Attachment.Data})
	} else {
		parts = append(parts, genai.Text(in.Text))
	}

	resp, err := c.generator.GenerateContent(ctx, parts...)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return blockedResponse(blocked, c.model), nil
		}
		return nil, transportError(err)
	}
	return extractText(resp, c.model), nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

func transportError(err error) error {
	baseErr := domain.NewTransportError(providerName, 0, fmt.Errorf("calling vertex AI: %w", err))
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return llm.NewRateLimitError(providerName, baseErr, 0)
	}
	return baseErr
}

// blockedResponse reports a safety block as empty output, the same as a
// response without candidates.
func blockedResponse(blocked *genai.BlockedError, model string) *port.ModelResponse {
	out := &port.ModelResponse{Model: model}
	switch {
	case blocked.PromptFeedback != nil:
		out.FinishReason = blocked.PromptFeedback.BlockReason.String()
	case blocked.Candidate != nil:
		out.FinishReason = blocked.Candidate.FinishReason.String()
	}
	return out
}

// extractText concatenates the text parts of the first candidate. A blocked
// prompt or empty candidate list yields empty text.
func extractText(resp *genai.GenerateContentResponse, model string) *port.ModelResponse {
	out := &port.ModelResponse{Model: model}
	if resp == nil {
		return out
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil {
			out.FinishReason = resp.PromptFeedback.BlockReason.String()
		}
		return out
	}

	candidate := resp.Candidates[0]
	out.FinishReason = candidate.FinishReason.String()
	if candidate.Content == nil {
		return out
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	out.Text = b.String()
	return out
}
