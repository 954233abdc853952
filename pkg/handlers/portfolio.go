package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/route"
)

// PortfolioAnalyzer suggests allocations by amount and risk profile.
type PortfolioAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *PortfolioAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_portfolio_suggestion":
		return a.suggest(ctx, call)
	default:
		return "", unknownMethod("portfolio_analyzer", method)
	}
}

func (a *PortfolioAnalyzer) suggest(ctx context.Context, call route.HandlerCall) (string, error) {
	var sb strings.Builder
	sb.WriteString("💼 Portföy önerisi\n\n")
	if call.Amount > 0 {
		sb.WriteString(fmt.Sprintf("Tutar: %s\n", formatAmount(call.Amount)))
	}

	risk := call.RiskTolerance
	if risk == "" {
		risk = route.RiskMedium
	}
	sb.WriteString(allocationFor(risk))

	safest, err := a.deps.Store.SafestFunds(ctx, call.Days, 3)
	if err != nil {
		return "", err
	}
	top, err := a.deps.Store.TopGainers(ctx, call.Days, 3)
	if err != nil {
		return "", err
	}

	if len(safest) > 0 {
		sb.WriteString("\nKoruma ayağı adayları:\n")
		for _, f := range safest {
			sb.WriteString(fmt.Sprintf("- %s %s (volatilite %.2f)\n", f.Code, f.Name, f.Volatility))
		}
	}
	if len(top) > 0 {
		sb.WriteString("\nBüyüme ayağı adayları:\n")
		for _, f := range top {
			sb.WriteString(fmt.Sprintf("- %s %s (getiri %%%.2f)\n", f.Code, f.Name, f.ReturnPct))
		}
	}
	if len(safest) == 0 && len(top) == 0 {
		return NoDataResponse, nil
	}
	return sb.String(), nil
}
