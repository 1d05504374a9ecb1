// Package llm wraps the completion boundary using langchaingo.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/credyukti/syndata-go/internal/config"
	"github.com/credyukti/syndata-go/internal/metrics"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Model wraps a langchaingo LLM for synthetic data generation.
type Model struct {
	llm         llms.Model
	modelName   string
	temperature float64
	maxTokens   int
	metrics     *metrics.Collector
}

// SetMetrics attaches a collector for timing and token usage.
func (m *Model) SetMetrics(c *metrics.Collector) {
	m.metrics = c
}

// NewModel creates an LLM model based on configuration.
func NewModel(ctx context.Context, cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error
	modelName := cfg.LLMModel

	switch cfg.LLMProvider {
	case config.ProviderAzure:
		if cfg.AzureAPIKey == "" || cfg.AzureEndpoint == "" || cfg.AzureDeployment == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_DEPLOYMENT and AZURE_OPENAI_API_KEY required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.AzureAPIKey),
			openai.WithModel(cfg.AzureDeployment),
			openai.WithBaseURL(cfg.AzureEndpoint),
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithAPIVersion(cfg.AzureAPIVersion),
		)
		if err != nil {
			return nil, fmt.Errorf("create azure openai model: %w", err)
		}
		modelName = cfg.AzureDeployment

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if awsErr != nil {
			return nil, fmt.Errorf("load aws config: %w", awsErr)
		}
		model, err = bedrock.New(
			bedrock.WithModel(cfg.LLMModel),
			bedrock.WithClient(bedrockruntime.NewFromConfig(awsCfg)),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:         model,
		modelName:   modelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete performs one synchronous request to the completion boundary
// and returns the raw reply text. No structure is guaranteed in the
// reply; all recovery happens in the parser.
func (m *Model) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	start := time.Now()
	response, err := m.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(m.temperature),
		llms.WithMaxTokens(m.maxTokens),
	)
	duration := time.Since(start)

	if err != nil {
		slog.Warn("completion failed", "model", m.modelName, "prompt_len", len(userPrompt), "duration_ms", duration.Milliseconds(), "error", err)
		return "", wrapFatalError(fmt.Errorf("generate: %w", err))
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	choice := response.Choices[0]
	if m.metrics != nil {
		m.metrics.RecordCompletion(duration, tokenCount(choice, "PromptTokens"), tokenCount(choice, "CompletionTokens"))
	}

	slog.Debug("completion ok", "model", m.modelName, "prompt_len", len(userPrompt), "duration_ms", duration.Milliseconds())
	return choice.Content, nil
}

// tokenCount pulls a usage counter out of the provider's generation
// info. Providers that report nothing yield zero.
func tokenCount(choice *llms.ContentChoice, key string) int64 {
	switch v := choice.GenerationInfo[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}
