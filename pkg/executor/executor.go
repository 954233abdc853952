// Package executor dispatches ordered route matches to their handler
// invokers. Handlers run sequentially; each invocation is isolated so
// one failure, panic or timeout never aborts the batch.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fonlabs/fonrouter/pkg/aiprovider"
	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/route"
)

// DefaultHandlerTimeout bounds a single handler invocation.
const DefaultHandlerTimeout = 10 * time.Second

const (
	defaultCount = 10
	defaultDays  = 30
)

// Executor invokes handlers for an ordered match list.
type Executor struct {
	reg     *registry.Registry
	timeout time.Duration
	log     zerolog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout sets the per-handler invocation budget.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the executor logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// New creates an executor over a sealed registry.
func New(reg *registry.Registry, opts ...Option) *Executor {
	e := &Executor{
		reg:     reg,
		timeout: DefaultHandlerTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute invokes each route's handler in order and collects results.
// A handler already executed in this batch is skipped unless the route
// is part of a multi-handler dispatch, which may call the same handler
// again with a different method. Cancellation stops dispatching after
// the current handler returns.
func (e *Executor) Execute(ctx context.Context, matches []route.Match) []route.HandlerResult {
	results := make([]route.HandlerResult, 0, len(matches))
	executed := make(map[string]bool, len(matches))

	for _, m := range matches {
		if ctx.Err() != nil {
			e.log.Warn().Err(ctx.Err()).Msg("execution cancelled, skipping remaining handlers")
			break
		}
		if executed[m.Handler] && !m.IsMultiHandler {
			e.log.Debug().Str("handler", m.Handler).Msg("handler already executed, skipping")
			continue
		}

		results = append(results, e.invokeOne(ctx, m))
		executed[m.Handler] = true
	}
	return results
}

func (e *Executor) invokeOne(ctx context.Context, m route.Match) route.HandlerResult {
	result := route.HandlerResult{
		HandlerName: m.Handler,
		DisplayName: m.Handler,
		MethodName:  m.Method,
		Confidence:  m.Confidence,
		Reasoning:   m.Reasoning,
	}

	d, err := e.reg.Get(m.Handler)
	if err != nil {
		result.Status = route.StatusFailed
		result.ErrorKind = route.ErrNotFound
		result.Err = err.Error()
		return result
	}
	result.DisplayName = d.DisplayName

	if d.Invoker == nil {
		result.Status = route.StatusFailed
		result.ErrorKind = route.ErrNotFound
		result.Err = fmt.Sprintf("handler %q has no invoker", m.Handler)
		return result
	}

	call := BindCall(m)

	start := time.Now()
	text, err := e.invokeWithTimeout(ctx, d.Invoker, m.Method, call)
	result.Duration = time.Since(start)

	switch {
	case err == nil:
		result.Status = route.StatusOK
		result.Text = text
	case errors.Is(err, context.DeadlineExceeded):
		result.Status = route.StatusTimedOut
		result.ErrorKind = route.ErrTimeout
		result.Err = fmt.Sprintf("handler exceeded %s budget", e.timeout)
		e.log.Warn().Str("handler", m.Handler).Str("method", m.Method).Msg("handler timed out")
	default:
		result.Status = route.StatusFailed
		result.ErrorKind = classifyError(err)
		result.Err = err.Error()
		e.log.Warn().Str("handler", m.Handler).Str("method", m.Method).Err(err).Msg("handler failed")
	}
	return result
}

// invokeWithTimeout runs the invoker in its own goroutine so a stuck
// handler cannot block the batch past its budget. A timed-out handler
// keeps running until it observes the cancelled context; its eventual
// result is discarded.
func (e *Executor) invokeWithTimeout(ctx context.Context, inv route.Invoker, method string, call route.HandlerCall) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("handler panic: %v", r)}
			}
		}()
		text, err := inv(ctx, method, call)
		done <- outcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		return out.text, out.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// BindCall flattens the route context into handler parameters using
// the well-known aliases: count falls back to 10, days to 30, and
// question always carries the caller's original text.
func BindCall(m route.Match) route.HandlerCall {
	c := m.Context
	call := route.HandlerCall{
		Question:      c.Question,
		Count:         defaultCount,
		Days:          defaultDays,
		FundCode:      c.FundCode,
		Currency:      c.Currency,
		RiskTolerance: c.RiskTolerance,
		GoalType:      c.GoalType,
		Comparison:    c.Comparison(),
		CompanyName:   c.CompanyName,
		Period:        c.Period,
		Context:       c,
	}
	if c.RequestedCount != nil {
		call.Count = *c.RequestedCount
	}
	if c.Days != nil {
		call.Days = *c.Days
	}
	if c.Amount != nil {
		call.Amount = *c.Amount
	}
	if c.Percentage != nil {
		call.Percentage = *c.Percentage
	}
	if c.YearsToGoal != nil {
		call.YearsToGoal = *c.YearsToGoal
	}
	if c.BetaThreshold != nil {
		call.BetaThreshold = *c.BetaThreshold
	}
	if c.SharpeThreshold != nil {
		call.SharpeThreshold = *c.SharpeThreshold
	}
	return call
}

func classifyError(err error) route.ErrorKind {
	if errors.Is(err, aiprovider.ErrUnavailable) {
		return route.ErrUpstreamUnavailable
	}
	return route.ErrInternal
}
