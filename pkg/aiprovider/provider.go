package aiprovider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ProviderType selects how the provider dispatches queries.
type ProviderType string

const (
	// ProviderPrimary queries the primary backend only.
	ProviderPrimary ProviderType = "PRIMARY"
	// ProviderSecondary queries the secondary backend only.
	ProviderSecondary ProviderType = "SECONDARY"
	// ProviderDual queries both backends and concatenates their answers.
	ProviderDual ProviderType = "DUAL"
)

const defaultQueryTimeout = 30 * time.Second

// Status describes the provider's configured backends.
type Status struct {
	Type      ProviderType
	Primary   string
	Secondary string
	Fallback  bool
}

// Provider routes queries to one or two backends. In PRIMARY and
// SECONDARY modes a transient failure falls back once to the other
// backend when fallback is enabled. DUAL mode queries both and
// tolerates a single failure.
type Provider struct {
	typ       ProviderType
	primary   Backend
	secondary Backend
	fallback  bool
	timeout   time.Duration
	log       zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithTimeout sets the per-query deadline.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithFallback enables one-shot cross-backend fallback on transient
// failures.
func WithFallback(enabled bool) Option {
	return func(p *Provider) { p.fallback = enabled }
}

// WithLogger sets the provider logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// NewProvider builds a provider over the given backends. The secondary
// backend may be nil when only one endpoint is configured; DUAL mode
// requires both.
func NewProvider(typ ProviderType, primary, secondary Backend, opts ...Option) (*Provider, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary backend is required")
	}
	if typ == ProviderDual && secondary == nil {
		return nil, fmt.Errorf("dual mode requires a secondary backend")
	}
	if typ == ProviderSecondary && secondary == nil {
		return nil, fmt.Errorf("secondary mode requires a secondary backend")
	}

	p := &Provider{
		typ:       typ,
		primary:   primary,
		secondary: secondary,
		timeout:   defaultQueryTimeout,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Type returns the configured dispatch mode.
func (p *Provider) Type() ProviderType { return p.typ }

// IsAvailable reports whether at least one backend is configured.
func (p *Provider) IsAvailable() bool { return p.primary != nil || p.secondary != nil }

// Status returns the provider configuration for diagnostics.
func (p *Provider) Status() Status {
	s := Status{Type: p.typ, Fallback: p.fallback}
	if p.primary != nil {
		s.Primary = p.primary.Name()
	}
	if p.secondary != nil {
		s.Secondary = p.secondary.Name()
	}
	return s
}

// Query dispatches the prompt according to the provider mode.
func (p *Provider) Query(ctx context.Context, prompt, systemPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	switch p.typ {
	case ProviderDual:
		return p.queryDual(ctx, prompt, systemPrompt)
	case ProviderSecondary:
		return p.querySingle(ctx, p.secondary, p.primary, prompt, systemPrompt)
	default:
		return p.querySingle(ctx, p.primary, p.secondary, prompt, systemPrompt)
	}
}

func (p *Provider) querySingle(ctx context.Context, first, second Backend, prompt, systemPrompt string) (string, error) {
	resp, err := first.Query(ctx, prompt, systemPrompt)
	if err == nil {
		return resp, nil
	}

	p.log.Warn().Str("backend", first.Name()).Err(err).Msg("backend query failed")

	if !p.fallback || second == nil || !IsTransient(err) {
		return "", err
	}
	if ctx.Err() != nil {
		return "", err
	}

	p.log.Info().Str("backend", second.Name()).Msg("falling back to alternate backend")
	resp, ferr := second.Query(ctx, prompt, systemPrompt)
	if ferr != nil {
		return "", fmt.Errorf("%w: %s: %v, %s: %v", ErrUnavailable, first.Name(), err, second.Name(), ferr)
	}
	return resp, nil
}

// queryDual runs both backends concurrently and joins their labelled
// answers. A single failure degrades to the surviving answer; both
// failing yields ErrUnavailable.
func (p *Provider) queryDual(ctx context.Context, prompt, systemPrompt string) (string, error) {
	type result struct {
		name string
		text string
		err  error
	}

	backends := []Backend{p.primary, p.secondary}
	results := make([]result, len(backends))

	var wg sync.WaitGroup
	for i, b := range backends {
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			text, err := b.Query(ctx, prompt, systemPrompt)
			results[i] = result{name: b.Name(), text: text, err: err}
		}(i, b)
	}
	wg.Wait()

	var parts []string
	var lastErr error
	for _, r := range results {
		if r.err != nil {
			p.log.Warn().Str("backend", r.name).Err(r.err).Msg("dual query leg failed")
			lastErr = r.err
			continue
		}
		parts = append(parts, fmt.Sprintf("[%s]\n%s", r.name, r.text))
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return strings.Join(parts, "\n\n---\n\n"), nil
}
