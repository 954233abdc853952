package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fonlabs/fonrouter/pkg/merger"
	"github.com/fonlabs/fonrouter/pkg/route"
	"github.com/fonlabs/fonrouter/pkg/turkish"
)

// legacyThreshold is the minimum keyword score the legacy chain
// accepts. It is lower than the router's threshold because keyword
// overlap is the only signal available here.
const legacyThreshold = 0.3

// legacyAnswer is the pre-pipeline classification chain: pure keyword
// scoring over the registry, best handler wins, no rules, no cache,
// no AI. Kept as the fallback when smart routing is switched off.
func (o *Orchestrator) legacyAnswer(ctx context.Context, question string, log zerolog.Logger) string {
	folded := turkish.Fold(question)

	var best *route.Match
	for _, d := range o.reg.All() {
		score := o.reg.ScoreKeywords(folded, d)
		if score < legacyThreshold {
			continue
		}
		if best == nil || score > best.Confidence {
			best = &route.Match{
				Handler:        d.Name,
				Method:         o.reg.SelectMethod(folded, d),
				Confidence:     score,
				Reasoning:      "legacy keyword match",
				Context:        route.Context{Question: question},
				MatchType:      route.MatchKeyword,
				ExecutionOrder: d.ExecutionOrder,
			}
		}
	}
	if best == nil {
		log.Info().Str("question", question).Msg("legacy chain found no handler")
		return HelpText
	}

	results := o.exec.Execute(ctx, []route.Match{*best})
	return merger.Merge(results, question)
}
