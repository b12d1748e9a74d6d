// Package textgen wraps the Anthropic API behind a minimal text-generation
// interface. Callers treat it as an opaque completion oracle and must
// tolerate malformed output.
package textgen

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Generator produces a free-form completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the generation settings.
type Config struct {
	Model     string
	MaxTokens int64
	System    string
}

type sdkGenerator struct {
	client sdk.Client
	cfg    Config
}

// NewGenerator creates a Generator backed by the official SDK.
func NewGenerator(apiKey string, cfg Config) Generator {
	if cfg.Model == "" {
		cfg.Model = "claude-haiku-4-5-20251001"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	return &sdkGenerator{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		cfg:    cfg,
	}
}

func (g *sdkGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(g.cfg.Model),
		MaxTokens: g.cfg.MaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if g.cfg.System != "" {
		params.System = []sdk.TextBlockParam{{Text: g.cfg.System}}
	}

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "textgen: create message")
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	zap.L().Debug("textgen: completion",
		zap.String("model", string(msg.Model)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return text, nil
}
