package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/fundstore"
	"github.com/fonlabs/fonrouter/pkg/route"
)

// AdvancedMetricsAnalyzer screens funds by beta, sharpe and
// volatility thresholds.
type AdvancedMetricsAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *AdvancedMetricsAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_combined_metrics_analysis":
		return a.combined(ctx, call)
	case "handle_beta_analysis":
		return a.beta(ctx, call)
	case "handle_sharpe_analysis":
		return a.sharpe(ctx, call)
	case "handle_volatility_analysis":
		return a.volatility(ctx, call)
	default:
		return "", unknownMethod("advanced_metrics_analyzer", method)
	}
}

func (a *AdvancedMetricsAnalyzer) combined(ctx context.Context, call route.HandlerCall) (string, error) {
	c := call.Context
	filter := fundstore.MetricFilter{
		BetaThreshold:   c.BetaThreshold,
		BetaLessThan:    c.BetaComparison == route.LessThan,
		SharpeThreshold: c.SharpeThreshold,
		SharpeLessThan:  c.SharpeComparison == route.LessThan,
	}
	if filter.BetaThreshold == nil && filter.SharpeThreshold == nil {
		return "Tarama için bir beta veya sharpe eşiği belirtin (örnek: \"beta 1 altı sharpe 1.5 üstü fonlar\").", nil
	}

	funds, err := a.deps.Store.FundsByMetrics(ctx, filter, call.Count)
	if err != nil {
		return "", err
	}
	title := "🎯 Metrik taraması — " + describeFilter(filter)
	return formatMetricList(title, funds), nil
}

func (a *AdvancedMetricsAnalyzer) beta(ctx context.Context, call route.HandlerCall) (string, error) {
	c := call.Context
	filter := fundstore.MetricFilter{
		BetaThreshold: c.BetaThreshold,
		BetaLessThan:  c.BetaComparison == route.LessThan,
	}
	if filter.BetaThreshold == nil {
		one := 1.0
		filter.BetaThreshold = &one
		filter.BetaLessThan = true
	}
	funds, err := a.deps.Store.FundsByMetrics(ctx, filter, call.Count)
	if err != nil {
		return "", err
	}
	return formatMetricList("🎯 Beta taraması — "+describeFilter(filter), funds), nil
}

func (a *AdvancedMetricsAnalyzer) sharpe(ctx context.Context, call route.HandlerCall) (string, error) {
	c := call.Context
	filter := fundstore.MetricFilter{
		SharpeThreshold: c.SharpeThreshold,
		SharpeLessThan:  c.SharpeComparison == route.LessThan,
	}
	if filter.SharpeThreshold == nil {
		one := 1.0
		filter.SharpeThreshold = &one
	}
	funds, err := a.deps.Store.FundsByMetrics(ctx, filter, call.Count)
	if err != nil {
		return "", err
	}
	return formatMetricList("🎯 Sharpe taraması — "+describeFilter(filter), funds), nil
}

func (a *AdvancedMetricsAnalyzer) volatility(ctx context.Context, call route.HandlerCall) (string, error) {
	max := 1.0
	funds, err := a.deps.Store.FundsByMetrics(ctx, fundstore.MetricFilter{MaxVolatility: &max}, call.Count)
	if err != nil {
		return "", err
	}
	return formatMetricList("🎯 Düşük volatilite taraması (volatilite < 1.0)", funds), nil
}

func describeFilter(f fundstore.MetricFilter) string {
	var parts []string
	if f.BetaThreshold != nil {
		parts = append(parts, fmt.Sprintf("beta %s %.2f", opWord(f.BetaLessThan), *f.BetaThreshold))
	}
	if f.SharpeThreshold != nil {
		parts = append(parts, fmt.Sprintf("sharpe %s %.2f", opWord(f.SharpeLessThan), *f.SharpeThreshold))
	}
	if f.MaxVolatility != nil {
		parts = append(parts, fmt.Sprintf("volatilite < %.2f", *f.MaxVolatility))
	}
	return strings.Join(parts, ", ")
}

func opWord(lessThan bool) string {
	if lessThan {
		return "<"
	}
	return ">"
}

func formatMetricList(title string, funds []fundstore.Fund) string {
	if len(funds) == 0 {
		return "Bu kriterlere uyan fon bulunamadı."
	}
	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for i, f := range funds {
		sb.WriteString(fmt.Sprintf("%d. %s — %s: beta %.2f, sharpe %.2f, volatilite %.2f\n",
			i+1, f.Code, f.Name, f.Beta, f.Sharpe, f.Volatility))
	}
	return sb.String()
}
