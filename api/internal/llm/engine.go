// Package llm holds the external text generators the analyzer can call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Generator turns a system instruction and a user prompt into free-form text.
type Generator interface {
	Name() string
	Generate(ctx context.Context, system, user string) (string, error)
}

// ErrDisabled is returned by the "none" provider.
var ErrDisabled = errors.New("generator disabled")

type Engines struct {
	DeepSeek Generator
	OpenAI   Generator
	Gemini   Generator
}

// Get resolves a provider name. "none" (or "") yields a generator that always
// fails, so the analyzer runs on local rules only.
func (e *Engines) Get(name string) (Generator, error) {
	var g Generator
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "deepseek":
		g = e.DeepSeek
	case "openai", "gpt":
		g = e.OpenAI
	case "gemini":
		g = e.Gemini
	case "", "none", "local":
		return Disabled(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q; use deepseek | openai | gemini | none", name)
	}
	if g == nil {
		return nil, fmt.Errorf("provider %q is not configured", name)
	}
	return g, nil
}
