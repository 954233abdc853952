package registry

import (
	"regexp"

	"github.com/fonlabs/fonrouter/pkg/route"
)

// RuleConfidence is the fixed confidence of a priority-rule match.
const RuleConfidence = 0.98

// secondaryTarget names an additional handler a multi rule expands to.
type secondaryTarget struct {
	handler string
	method  string
}

// priorityRule is a hard-coded classification that preempts the
// general scoring pipeline. Rules fire on the folded question and on
// already-extracted context fields; first match wins.
type priorityRule struct {
	name        string
	re          *regexp.Regexp
	needCompany bool
	handler     string
	method      string
	multi       bool
	secondaries []secondaryTarget
}

// The rule set mirrors the curated high-priority routes of the legacy
// classifier. Some overlap with the general pattern tables; when both
// would fire, rules win by construction.
var priorityRules = []priorityRule{
	{
		name:        "company_question",
		needCompany: true,
		handler:     "company_analyzer",
		method:      "handle_company_question",
	},
	{
		name:    "combined_metrics",
		re:      regexp.MustCompile(`beta.*sharpe|sharpe.*beta`),
		handler: "advanced_metrics_analyzer",
		method:  "handle_combined_metrics_analysis",
	},
	{
		name:    "scenario_marker",
		re:      regexp.MustCompile(`\bolursa\b|\bolsa\b|ne olur\b|senaryo`),
		handler: "scenario_analyzer",
		method:  "handle_scenario_question",
	},
	{
		name:    "technical_indicator",
		re:      regexp.MustCompile(`\brsi\b|\bmacd\b|bollinger|hareketli ortalama|golden cross|death cross`),
		handler: "technical_analyzer",
		method:  "handle_technical_question",
	},
	{
		name:    "age_retirement",
		re:      regexp.MustCompile(`\d+\s*yasinda.*emekli|emekli.*\d+\s*yil`),
		handler: "personal_finance_analyzer",
		method:  "handle_retirement_plan",
	},
	{
		name:    "comprehensive_market",
		re:      regexp.MustCompile(`kapsamli piyasa|piyasa.* genel durum|genel piyasa|piyasa analiz raporu`),
		handler: "market_overview_analyzer",
		method:  "handle_market_overview",
		multi:   true,
		secondaries: []secondaryTarget{
			{handler: "performance_analyzer", method: "handle_top_gainers"},
			{handler: "technical_analyzer", method: "handle_market_technicals"},
		},
	},
}

// ClassifyByPriorityRules checks the curated rule set against the
// folded question. It returns nil when no rule fires; otherwise one
// match per target handler, all carrying the extracted context. Multi
// rules expand into their declared secondary handlers.
func (r *Registry) ClassifyByPriorityRules(folded string, ctx route.Context) []route.Match {
	for _, rule := range priorityRules {
		if rule.needCompany {
			if ctx.CompanyName == "" {
				continue
			}
		} else if rule.re == nil || !rule.re.MatchString(folded) {
			continue
		}

		targets := append([]secondaryTarget{{handler: rule.handler, method: rule.method}}, rule.secondaries...)
		matches := make([]route.Match, 0, len(targets))
		for _, t := range targets {
			d, err := r.Get(t.handler)
			if err != nil {
				// Rule references a handler that was never registered;
				// skip the target rather than fail classification.
				continue
			}
			matches = append(matches, route.Match{
				Handler:        t.handler,
				Method:         t.method,
				Confidence:     RuleConfidence,
				Reasoning:      "rule:" + rule.name,
				Context:        ctx,
				MatchType:      route.MatchRule,
				IsMultiHandler: rule.multi,
				ExecutionOrder: d.ExecutionOrder,
			})
		}
		if len(matches) > 0 {
			return matches
		}
	}
	return nil
}
