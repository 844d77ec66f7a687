package prompt

import (
	"context"
	"math/rand"
	"strings"

	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/model"
)

// Source names accepted in configuration.
const (
	SourceDynamic = "dynamic"
	SourceStatic  = "static"
	SourceWords   = "words"
)

// Source produces prompt text for a player level.
type Source interface {
	Name() string
	Prompt(ctx context.Context, level int) (string, error)
}

// Provider tries its sources in order and falls back to a static prompt.
type Provider struct {
	sources  []Source
	fallback *Static
	log      *logging.Logger
}

// NewProvider returns a provider over sources with a static fallback.
func NewProvider(log *logging.Logger, fallback *Static, sources ...Source) *Provider {
	return &Provider{sources: sources, fallback: fallback, log: log}
}

// Build wires the sources selected by cfg. The chat source is only added
// when the API is enabled; word prompts need a non-empty word list.
func Build(cfg model.Config, api model.APIConfig, words []string, weak func() map[rune]struct{}, rnd *rand.Rand, log *logging.Logger) *Provider {
	static := NewStatic(rnd, nil)
	var sources []Source
	switch cfg.Source {
	case SourceStatic:
	case SourceWords:
		sources = append(sources, NewGenerator(rnd, words, cfg, weak))
	default:
		if api.Enabled {
			sources = append(sources, NewChatClient(api, nil, rnd))
		}
	}
	return NewProvider(log, static, sources...)
}

// Next always returns a prompt. Source failures are logged and the next
// source is tried.
func (p *Provider) Next(ctx context.Context, level int) string {
	for _, src := range p.sources {
		text, err := src.Prompt(ctx, level)
		if err != nil {
			p.log.Warnf("prompt source %s failed, falling back: %v", src.Name(), err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			p.log.Warnf("prompt source %s returned empty text, falling back", src.Name())
			continue
		}
		return text
	}
	return p.fallback.Pick()
}
