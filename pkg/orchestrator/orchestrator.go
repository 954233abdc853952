// Package orchestrator is the public entry point: it normalizes a
// question, classifies it, executes the matched handlers and merges
// their output into one answer.
package orchestrator

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fonlabs/fonrouter/pkg/executor"
	"github.com/fonlabs/fonrouter/pkg/merger"
	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/route"
	"github.com/fonlabs/fonrouter/pkg/router"
)

// HelpText is returned when no handler can serve the question.
const HelpText = `Size TEFAS fonları hakkında yardımcı olabilirim. Örnek sorular:

- "en güvenli 10 fon"
- "son 30 günde en çok kazandıran fonlar"
- "TYH fonunu analiz et"
- "beta değeri 1'in altındaki fonlar"
- "kapsamlı piyasa analizi"
- "100 bin TL için portföy önerisi"`

// Orchestrator wires the router, executor and merger behind a single
// Answer call.
type Orchestrator struct {
	router       *router.Router
	exec         *executor.Executor
	reg          *registry.Registry
	smartRouting bool
	log          zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithSmartRouting toggles the full routing pipeline. When disabled,
// questions go through the legacy keyword chain.
func WithSmartRouting(enabled bool) Option {
	return func(o *Orchestrator) { o.smartRouting = enabled }
}

// New creates an orchestrator.
func New(r *router.Router, exec *executor.Executor, reg *registry.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		router:       r,
		exec:         exec,
		reg:          reg,
		smartRouting: true,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Answer resolves one question to a human-readable text block. It
// always returns a non-empty string.
func (o *Orchestrator) Answer(ctx context.Context, question string) string {
	log := o.log.With().Str("request_id", uuid.NewString()[:8]).Logger()

	question = strings.TrimSpace(question)
	if question == "" {
		return HelpText
	}

	if !o.smartRouting {
		log.Debug().Msg("smart routing disabled, using legacy chain")
		return o.legacyAnswer(ctx, question, log)
	}

	matches := o.router.RouteMulti(ctx, question)
	if len(matches) == 0 {
		log.Info().Str("question", question).Msg("no routes matched")
		return HelpText
	}

	if !anyMulti(matches) {
		matches = matches[:1]
	}
	log.Info().
		Str("handler", matches[0].Handler).
		Str("method", matches[0].Method).
		Float64("confidence", matches[0].Confidence).
		Int("routes", len(matches)).
		Msg("question classified")

	results := o.exec.Execute(ctx, matches)
	return merger.Merge(results, question)
}

// Routes exposes the classification for one question without
// executing anything. Used by diagnostics surfaces.
func (o *Orchestrator) Routes(ctx context.Context, question string) []route.Match {
	return o.router.RouteMulti(ctx, question)
}

// ClearRouteCache drops the router's memoized classifications.
func (o *Orchestrator) ClearRouteCache() {
	o.router.ClearCache()
}

func anyMulti(matches []route.Match) bool {
	for _, m := range matches {
		if m.IsMultiHandler {
			return true
		}
	}
	return false
}
