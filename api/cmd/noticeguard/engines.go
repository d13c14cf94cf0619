package main

import (
	"notice-guard/api/internal/config"
	"notice-guard/api/internal/llm"
	"notice-guard/api/internal/llm/deepseek"
	"notice-guard/api/internal/llm/gemini"
)

// buildEngines wires every generator that has a key; the rest stay nil and
// llm.Engines.Get reports them as not configured.
func buildEngines(c *config.Config) *llm.Engines {
	engs := &llm.Engines{}
	if c.DeepseekAPIKey != "" {
		engs.DeepSeek = deepseek.New(deepseek.Config{
			APIKey:           c.DeepseekAPIKey,
			BaseURL:          c.DeepseekBaseURL,
			Model:            c.DeepseekModel,
			Temperature:      c.Temperature,
			Timeout:          c.Timeout,
			MaxResponseBytes: c.MaxBytes,
		})
	}
	if c.OpenAIAPIKey != "" {
		engs.OpenAI = deepseek.New(deepseek.Config{
			Name:             "openai",
			APIKey:           c.OpenAIAPIKey,
			BaseURL:          c.OpenAIBaseURL,
			Model:            c.OpenAIModel,
			Temperature:      c.Temperature,
			Timeout:          c.Timeout,
			MaxResponseBytes: c.MaxBytes,
		})
	}
	if c.GeminiAPIKey != "" {
		engs.Gemini = gemini.New(c.GeminiAPIKey, c.GeminiModel, float32(c.Temperature))
	}
	return engs
}

func buildGenerator(c *config.Config) (llm.Generator, error) {
	return buildEngines(c).Get(c.Provider)
}
