package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface the recognizer needs to call a chat model.
// It mirrors the CreateChatCompletion method of *openai.Client so that any
// OpenAI-compatible or local backend can be adapted.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ModelLister is an optional capability that allows listing available models.
// Providers that do not support this can omit it; callers should use a type
// assertion to detect availability.
type ModelLister interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// OpenAIProvider adapts *openai.Client to the Client/ModelLister interfaces.
type OpenAIProvider struct {
	Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return p.Inner.CreateChatCompletion(ctx, request)
}

func (p *OpenAIProvider) ListModels(ctx context.Context) (openai.ModelsList, error) {
	return p.Inner.ListModels(ctx)
}

// NewOpenAIProvider builds a provider for an OpenAI-compatible endpoint. An
// empty baseURL keeps the library default.
func NewOpenAIProvider(baseURL, apiKey string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = NewHTTPClient()
	return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}

// NewHTTPClient returns the HTTP client used for model calls. A single
// document is tagged per call, so one small keep-alive pool is enough.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// Preflight checks that the endpoint answers and serves model. An empty
// model list is accepted since some local servers do not report theirs.
func Preflight(ctx context.Context, lister ModelLister, model string, timeout time.Duration) error {
	if lister == nil {
		return errors.New("model lister not configured")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	models, err := lister.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	if len(models.Models) == 0 {
		return nil
	}
	for _, m := range models.Models {
		if m.ID == model {
			return nil
		}
	}
	return fmt.Errorf("model %q not served by endpoint", model)
}
