package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/toolloop/internal/utils"
	"github.com/leofalp/toolloop/providers/ai"
	"github.com/leofalp/toolloop/providers/observability"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"

	// DefaultModel is used when the request does not name a model.
	DefaultModel = "gpt-4o-mini"
)

var (
	// ErrMissingAPIKey is returned by SendMessage when no API key is configured.
	ErrMissingAPIKey = errors.New("openai: API key is not set")

	// ErrMalformedResponse reports a response that cannot be turned into an
	// assistant message, such as one without choices or with undecodable
	// tool-call arguments.
	ErrMalformedResponse = errors.New("openai: malformed response")
)

// Provider talks to an OpenAI-compatible chat completions API.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ai.Provider = (*Provider)(nil)

// New creates a provider configured from OPENAI_API_KEY and
// OPENAI_API_BASE_URL.
func New() *Provider {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider
func (p *Provider) WithAPIKey(apiKey string) *Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API. An empty value is ignored.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	if baseURL != "" {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
	return p
}

// WithHttpClient sets a custom HTTP client
func (p *Provider) WithHttpClient(httpClient *http.Client) *Provider {
	if httpClient != nil {
		p.client = httpClient
	}
	return p
}

// SendMessage implements ai.Provider.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if request.Model == "" {
		request.Model = DefaultModel
	}

	url := p.baseURL + chatCompletionsEndpoint
	if span := observability.SpanFromContext(ctx); span != nil {
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, "openai"),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.String(observability.AttrLLMEndpoint, url),
		)
	}

	body, err := requestToChatCompletion(request)
	if err != nil {
		return nil, err
	}

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, url, p.apiKey, body)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	return chatCompletionToGeneric(*resp)
}
