// Package notice runs the analysis pipeline: risk gate, prompt, generator,
// JSON recovery and normalization, with the local scorer as the fallback for
// any generator or extraction failure.
package notice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notice-guard/api/internal/llm"
	"notice-guard/api/internal/notice/gate"
	"notice-guard/api/internal/notice/heuristic"
	"notice-guard/api/internal/notice/prompt"
	"notice-guard/api/internal/notice/taxonomy"
	"notice-guard/api/internal/notice/types"
	"notice-guard/api/internal/util"
)

const DefaultTimeout = 75 * time.Second

type Options struct {
	Timeout  time.Duration
	Logger   *zap.Logger
	Taxonomy *taxonomy.Taxonomy
}

type Analyzer struct {
	gen     llm.Generator
	timeout time.Duration
	log     *zap.Logger

	gate   *gate.Gate
	scorer *heuristic.Scorer
	norm   *Normalizer
}

// New builds an analyzer. A nil generator means local rules only.
func New(gen llm.Generator, opts Options) *Analyzer {
	if gen == nil {
		gen = llm.Disabled()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	tax := opts.Taxonomy
	if tax == nil {
		tax = taxonomy.Default()
	}
	return &Analyzer{
		gen:     gen,
		timeout: opts.Timeout,
		log:     opts.Logger,
		gate:    gate.New(tax),
		scorer:  heuristic.New(tax),
		norm:    NewNormalizer(tax),
	}
}

// Analyze always returns a well-formed result. The only error is
// types.ErrEmptyText for blank input.
func (a *Analyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return types.AnalysisResult{}, err
	}
	start := time.Now()
	log := a.log.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("provider", a.gen.Name()),
		zap.String("scenario", req.Scenario),
	)

	verdict := a.gate.Evaluate(req.Text)
	log.Debug("gate verdict",
		zap.String("category", string(verdict.Category)),
		zap.Bool("substantive", verdict.IsSubstantive),
		zap.String("reason", verdict.Reason))

	out, err := a.generate(ctx, prompt.Build(req, verdict))
	if err != nil {
		return a.fallback(log, req, "generator", err, start), nil
	}
	obj, err := util.ExtractObject(out)
	if err != nil {
		return a.fallback(log, req, "extract", err, start), nil
	}
	var raw types.RawAnalysis
	if err := json.Unmarshal(obj, &raw); err != nil {
		return a.fallback(log, req, "decode", err, start), nil
	}

	res := a.norm.Normalize(raw, verdict, req)
	log.Info("analysis complete",
		zap.String("source", string(res.Source)),
		zap.Int("risk_score", res.RiskScore),
		zap.String("risk_level", string(res.RiskLevel)),
		zap.Bool("substantive", verdict.IsSubstantive),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

// generate is the only step allowed to block. Errors, the timeout and panics
// inside the generator all come back as an error. The call runs in its own
// goroutine so a generator that ignores ctx cannot hold Analyze past the
// deadline.
func (a *Analyzer) generate(ctx context.Context, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type reply struct {
		out string
		err error
	}
	done := make(chan reply, 1)
	go func() {
		var r reply
		defer func() {
			if p := recover(); p != nil {
				r = reply{err: fmt.Errorf("%s: panic: %v", a.gen.Name(), p)}
			}
			done <- r
		}()
		r.out, r.err = a.gen.Generate(ctx, prompt.System, user)
	}()

	select {
	case r := <-done:
		if r.err == nil && ctx.Err() != nil {
			r.err = ctx.Err()
		}
		return r.out, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", a.gen.Name(), ctx.Err())
	}
}

func (a *Analyzer) fallback(log *zap.Logger, req types.AnalysisRequest, stage string, err error, start time.Time) types.AnalysisResult {
	res := a.scorer.Score(req)
	log.Warn("falling back to local rules",
		zap.String("stage", stage),
		zap.String("fallback_reason", err.Error()),
		zap.Int("risk_score", res.RiskScore),
		zap.String("risk_level", string(res.RiskLevel)),
		zap.Duration("duration", time.Since(start)))
	return res
}
