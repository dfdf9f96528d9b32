package classifier

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

const systemPrompt = "You moderate a group chat. Decide whether the user's message is aggressive, " +
	"hostile, insulting or threatening toward someone. Answer with exactly one word: yes or no."

// OpenAIConfig configures the model classifier.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies and tests
	Retries int
}

// OpenAI asks a chat model whether a message is aggressive.
type OpenAI struct {
	client openai.Client
	model  string
}

var _ ports.AggressionClassifier = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &domain.OpError{
			Op:   "classifier.openai.init",
			Kind: domain.KindOpenAIService,
			Err:  errors.New("OPENAI_API_KEY is not set"),
		}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.Retries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (o *OpenAI) Name() string { return string(domain.ClassifierOpenAI) }

func (o *OpenAI) Classify(ctx context.Context, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(3),
	})
	if err != nil {
		return false, &domain.OpError{
			Op:   "classifier.openai.classify",
			Kind: domain.KindOpenAIService,
			Err:  err,
		}
	}
	if len(resp.Choices) == 0 {
		return false, &domain.OpError{
			Op:   "classifier.openai.classify",
			Kind: domain.KindOpenAIService,
			Err:  errors.New("empty completion"),
		}
	}

	return parseVerdict(resp.Choices[0].Message.Content), nil
}

// parseVerdict reads the first word of the answer; anything but "yes" is a no.
func parseVerdict(answer string) bool {
	fields := strings.Fields(strings.ToLower(answer))
	if len(fields) == 0 {
		return false
	}
	return strings.Trim(fields[0], ".!,\"'") == "yes"
}
