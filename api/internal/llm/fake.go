package llm

import (
	"context"
	"sync"
)

// Fake returns a canned response or error and records the prompts it saw.
type Fake struct {
	Label        string // reported by Name(), "fake" when empty
	ResponseText string
	Error        error
	// Hook, when set, runs instead of the canned response.
	Hook func(ctx context.Context, system, user string) (string, error)

	mu    sync.Mutex
	calls []Call
}

type Call struct {
	System string
	User   string
}

func NewFake(response string) *Fake {
	return &Fake{ResponseText: response}
}

// Disabled is the generator behind the "none" provider.
func Disabled() *Fake {
	return &Fake{Label: "none", Error: ErrDisabled}
}

func (f *Fake) Name() string {
	if f.Label == "" {
		return "fake"
	}
	return f.Label
}

func (f *Fake) Generate(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{System: system, User: user})
	f.mu.Unlock()

	if f.Hook != nil {
		return f.Hook(ctx, system, user)
	}
	if f.Error != nil {
		return "", f.Error
	}
	return f.ResponseText, nil
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
