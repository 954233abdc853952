// Package handlers implements the built-in analyzer family. Each
// analyzer exposes named methods through the route.Invoker contract
// and depends only on the narrow Deps struct it is constructed with.
package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fonlabs/fonrouter/pkg/aiprovider"
	"github.com/fonlabs/fonrouter/pkg/fundstore"
	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/route"
)

// Deps carries the shared dependencies of every analyzer. Provider may
// be nil; analyzers then skip their AI commentary.
type Deps struct {
	Store    fundstore.Store
	Provider *aiprovider.Provider
	Log      zerolog.Logger
}

// NoDataResponse is the normal-text answer for empty query results.
const NoDataResponse = "Bu soru için elimde güncel fon verisi yok."

// RegisterAll registers the default catalog with invokers attached.
// The caller seals the registry afterwards.
func RegisterAll(reg *registry.Registry, deps Deps) error {
	invokers := map[string]route.Invoker{
		"performance_analyzer":      (&PerformanceAnalyzer{deps: deps}).Invoke,
		"market_overview_analyzer":  (&MarketOverviewAnalyzer{deps: deps}).Invoke,
		"scenario_analyzer":         (&ScenarioAnalyzer{deps: deps}).Invoke,
		"comparison_analyzer":       (&ComparisonAnalyzer{deps: deps}).Invoke,
		"company_analyzer":          (&CompanyAnalyzer{deps: deps}).Invoke,
		"advanced_metrics_analyzer": (&AdvancedMetricsAnalyzer{deps: deps}).Invoke,
		"personal_finance_analyzer": (&PersonalFinanceAnalyzer{deps: deps}).Invoke,
		"technical_analyzer":        (&TechnicalAnalyzer{deps: deps}).Invoke,
		"currency_analyzer":         (&CurrencyAnalyzer{deps: deps}).Invoke,
		"portfolio_analyzer":        (&PortfolioAnalyzer{deps: deps}).Invoke,
	}

	for _, d := range registry.DefaultCatalog() {
		if inv, ok := invokers[d.Name]; ok {
			d.Invoker = inv
		}
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func unknownMethod(handler, method string) error {
	return fmt.Errorf("%s: unknown method %q", handler, method)
}

// formatPerformanceList renders a ranked fund list.
func formatPerformanceList(title string, funds []fundstore.FundPerformance) string {
	if len(funds) == 0 {
		return NoDataResponse
	}
	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for i, f := range funds {
		sb.WriteString(fmt.Sprintf("%d. %s — %s (%s): getiri %%%.2f, volatilite %.2f\n",
			i+1, f.Code, f.Name, f.Company, f.ReturnPct, f.Volatility))
	}
	return sb.String()
}

// formatAmount renders a lira amount with thousand separators.
func formatAmount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out + " TL"
}
