// Package router classifies Turkish fund questions into handler
// routes. Classification is layered: curated priority rules first,
// then pattern, keyword and example scoring over the registry, then
// optional semantic similarity, and finally an LLM fallback when the
// deterministic passes find nothing convincing.
package router

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fonlabs/fonrouter/pkg/aiprovider"
	"github.com/fonlabs/fonrouter/pkg/fundctx"
	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/route"
	"github.com/fonlabs/fonrouter/pkg/turkish"
)

const (
	// DefaultConfidenceThreshold filters weak candidates.
	DefaultConfidenceThreshold = 0.5

	// DefaultMaxRoutes caps a multi-handler expansion.
	DefaultMaxRoutes = 5

	// maxClassifyBytes bounds the text fed to classification. The full
	// question still travels to handlers via Context.Question.
	maxClassifyBytes = 4096

	// Attenuation of the three scoring passes. Patterns are the most
	// precise signal, raw keyword overlap the least.
	patternWeight = 1.0
	keywordWeight = 0.9
	exampleWeight = 0.8

	// strongConfidence marks a candidate good enough to carry a
	// multi-handler expansion on its own.
	strongConfidence = 0.85
)

// multiTriggers are question phrases that request a multi-perspective
// answer regardless of how the handlers scored.
var multiTriggers = []string{
	"detayli",
	"kapsamli",
	"tum yonleri",
	"her acidan",
	"karsilastirmali",
	"derinlemesine",
	"analiz raporu",
}

// Router is the hybrid question classifier.
type Router struct {
	reg       *registry.Registry
	extractor *fundctx.Extractor
	provider  *aiprovider.Provider
	semantic  *SemanticIndex

	cache             *routeCache
	threshold         float64
	semanticThreshold float64
	maxRoutes         int
	enableSemantic    bool
	enableLLM         bool
	log               zerolog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithProvider attaches the LLM fallback classifier.
func WithProvider(p *aiprovider.Provider) RouterOption {
	return func(r *Router) {
		r.provider = p
		r.enableLLM = p != nil
	}
}

// WithSemanticIndex attaches the embedding similarity pass.
func WithSemanticIndex(idx *SemanticIndex) RouterOption {
	return func(r *Router) {
		r.semantic = idx
		r.enableSemantic = idx != nil
	}
}

// WithConfidenceThreshold overrides the candidate filter threshold.
func WithConfidenceThreshold(t float64) RouterOption {
	return func(r *Router) {
		if t > 0 {
			r.threshold = t
		}
	}
}

// WithSemanticThreshold overrides the minimum cosine similarity.
func WithSemanticThreshold(t float64) RouterOption {
	return func(r *Router) {
		if t > 0 {
			r.semanticThreshold = t
		}
	}
}

// WithMaxRoutes overrides the multi-handler route cap.
func WithMaxRoutes(n int) RouterOption {
	return func(r *Router) {
		if n > 0 {
			r.maxRoutes = n
		}
	}
}

// WithCacheCapacity sizes the route cache.
func WithCacheCapacity(n int) RouterOption {
	return func(r *Router) {
		if cache, err := newRouteCache(n); err == nil {
			r.cache = cache
		}
	}
}

// WithRouterLogger sets the router logger.
func WithRouterLogger(log zerolog.Logger) RouterOption {
	return func(r *Router) { r.log = log }
}

// NewRouter creates a router over a sealed registry.
func NewRouter(reg *registry.Registry, extractor *fundctx.Extractor, opts ...RouterOption) *Router {
	r := &Router{
		reg:               reg,
		extractor:         extractor,
		threshold:         DefaultConfidenceThreshold,
		semanticThreshold: DefaultSemanticThreshold,
		maxRoutes:         DefaultMaxRoutes,
		log:               zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache, _ = newRouteCache(DefaultCacheCapacity)
	}
	return r
}

// Route classifies a question and returns the single best route, or
// nil when nothing qualifies.
func (r *Router) Route(ctx context.Context, question string) *route.Match {
	matches := r.RouteMulti(ctx, question)
	if len(matches) == 0 {
		return nil
	}
	m := matches[0]
	return &m
}

// RouteMulti classifies a question and returns all qualifying routes
// in execution order. Single-handler questions yield one route.
func (r *Router) RouteMulti(ctx context.Context, question string) []route.Match {
	if strings.TrimSpace(question) == "" {
		return nil
	}

	classifyText := question
	if len(classifyText) > maxClassifyBytes {
		classifyText = truncateUTF8(classifyText, maxClassifyBytes)
	}
	folded := turkish.Fold(classifyText)

	if cached, ok := r.cache.get(folded); ok {
		r.log.Debug().Str("question", classifyText).Msg("route cache hit")
		return withQuestion(cached, question)
	}

	extracted := r.extractor.Extract(classifyText)
	extracted.Question = question

	// Priority rules preempt every other pass.
	if matches := r.reg.ClassifyByPriorityRules(folded, extracted); len(matches) > 0 {
		matches = r.finalize(matches, folded)
		r.cache.put(folded, matches)
		return withQuestion(matches, question)
	}

	candidates := r.scoreRegistry(folded, extracted)

	if r.enableSemantic && r.semantic != nil {
		candidates = append(candidates, r.semanticPass(ctx, folded, extracted)...)
	}

	if r.enableLLM && !hasStrongCandidate(candidates, r.threshold) {
		candidates = append(candidates, r.llmPass(ctx, classifyText, folded, extracted)...)
	}

	matches := r.finalize(candidates, folded)
	r.cache.put(folded, matches)
	return withQuestion(matches, question)
}

// ClearCache drops all memoized routes. Call it after changing the
// registry or rule behavior at runtime.
func (r *Router) ClearCache() {
	r.cache.purge()
}

// CacheLen reports the number of cached classifications.
func (r *Router) CacheLen() int {
	return r.cache.len()
}

// scoreRegistry runs the pattern, keyword and example passes and keeps
// the best signal per handler.
func (r *Router) scoreRegistry(folded string, extracted route.Context) []route.Match {
	var candidates []route.Match
	for _, d := range r.reg.All() {
		score := r.reg.ScorePattern(folded, d.Patterns) * patternWeight
		matchType := route.MatchPattern

		if kw := r.reg.ScoreKeywords(folded, d) * keywordWeight; kw > score {
			score = kw
			matchType = route.MatchKeyword
		}
		if ex := r.reg.ScoreExamples(folded, d) * exampleWeight; ex > score {
			score = ex
			matchType = route.MatchExample
		}
		if score == 0 {
			continue
		}

		candidates = append(candidates, route.Match{
			Handler:        d.Name,
			Method:         r.reg.SelectMethod(folded, d),
			Confidence:     score,
			Reasoning:      string(matchType) + " match",
			Context:        extracted,
			MatchType:      matchType,
			ExecutionOrder: d.ExecutionOrder,
		})
	}
	return candidates
}

func (r *Router) semanticPass(ctx context.Context, folded string, extracted route.Context) []route.Match {
	sims, err := r.semantic.Search(ctx, folded, r.semanticThreshold)
	if err != nil {
		r.log.Warn().Err(err).Msg("semantic pass failed")
		return nil
	}

	var candidates []route.Match
	for handler, sim := range sims {
		d, err := r.reg.Get(handler)
		if err != nil {
			continue
		}
		candidates = append(candidates, route.Match{
			Handler:        handler,
			Method:         r.reg.SelectMethod(folded, d),
			Confidence:     sim,
			Reasoning:      "semantic similarity",
			Context:        extracted,
			MatchType:      route.MatchSemantic,
			ExecutionOrder: d.ExecutionOrder,
		})
	}
	return candidates
}

// llmPass asks the fallback classifier for routes. LLM-supplied
// context may only fill keys the deterministic extractor left unset.
func (r *Router) llmPass(ctx context.Context, classifyText, folded string, extracted route.Context) []route.Match {
	prompt := buildRoutingPrompt(r.reg, classifyText)
	resp, err := r.provider.Query(ctx, prompt, llmSystemPrompt)
	if err != nil {
		r.log.Warn().Err(err).Msg("llm pass failed")
		return nil
	}

	var candidates []route.Match
	for _, lr := range parseLLMRoutes(resp) {
		d, err := r.reg.Get(lr.Handler)
		if err != nil {
			r.log.Debug().Str("handler", lr.Handler).Msg("llm proposed unknown handler")
			continue
		}
		method := lr.Method
		if method == "" {
			method = r.reg.SelectMethod(folded, d)
		}
		reasoning := lr.Reasoning
		if reasoning == "" {
			reasoning = "llm classification"
		}
		candidates = append(candidates, route.Match{
			Handler:        lr.Handler,
			Method:         method,
			Confidence:     lr.Confidence,
			Reasoning:      reasoning,
			Context:        extracted.Merge(lr.Context),
			MatchType:      route.MatchLLM,
			ExecutionOrder: d.ExecutionOrder,
		})
	}
	return candidates
}

// finalize dedupes, thresholds, flags multi-handler intent, orders and
// caps the candidate set.
func (r *Router) finalize(candidates []route.Match, folded string) []route.Match {
	if len(candidates) == 0 {
		return nil
	}

	// Dedup by handler+method, keeping the highest confidence.
	best := make(map[string]int)
	var deduped []route.Match
	for _, c := range candidates {
		key := c.Handler + "\x00" + c.Method
		if i, ok := best[key]; ok {
			if c.Confidence > deduped[i].Confidence {
				deduped[i] = c
			}
			continue
		}
		best[key] = len(deduped)
		deduped = append(deduped, c)
	}

	var kept []route.Match
	for _, c := range deduped {
		if c.Confidence >= r.threshold {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	multi := wantsMulti(kept, folded)

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].ExecutionOrder != kept[j].ExecutionOrder {
			return kept[i].ExecutionOrder < kept[j].ExecutionOrder
		}
		if kept[i].Confidence != kept[j].Confidence {
			return kept[i].Confidence > kept[j].Confidence
		}
		return r.reg.RegistrationIndex(kept[i].Handler) < r.reg.RegistrationIndex(kept[j].Handler)
	})

	if !multi {
		kept = kept[:1]
	} else if len(kept) > r.maxRoutes {
		kept = kept[:r.maxRoutes]
	}
	for i := range kept {
		kept[i].IsMultiHandler = multi && len(kept) > 1
	}
	return kept
}

// wantsMulti decides whether the question calls for multiple handlers:
// a rule already flagged it, the question contains a multi trigger
// phrase, or two distinct handlers both scored strongly.
func wantsMulti(candidates []route.Match, folded string) bool {
	for _, c := range candidates {
		if c.IsMultiHandler {
			return true
		}
	}
	for _, trig := range multiTriggers {
		if strings.Contains(folded, trig) {
			return true
		}
	}
	strong := make(map[string]struct{})
	for _, c := range candidates {
		if c.Confidence >= strongConfidence {
			strong[c.Handler] = struct{}{}
		}
	}
	return len(strong) >= 2
}

func hasStrongCandidate(candidates []route.Match, threshold float64) bool {
	for _, c := range candidates {
		if c.Confidence >= threshold {
			return true
		}
	}
	return false
}

// withQuestion rewrites Context.Question on copies of cached matches
// so handlers always see the caller's exact text.
func withQuestion(matches []route.Match, question string) []route.Match {
	out := make([]route.Match, len(matches))
	copy(out, matches)
	for i := range out {
		out[i].Context.Question = question
	}
	return out
}

// truncateUTF8 cuts s at the last rune boundary at or before n bytes.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
