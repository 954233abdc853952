package handlers

import (
	"context"
	"fmt"

	"github.com/fonlabs/fonrouter/pkg/route"
)

// CurrencyAnalyzer answers currency-denominated fund questions.
type CurrencyAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *CurrencyAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_currency_funds":
		return a.currencyFunds(ctx, call)
	default:
		return "", unknownMethod("currency_analyzer", method)
	}
}

func (a *CurrencyAnalyzer) currencyFunds(ctx context.Context, call route.HandlerCall) (string, error) {
	funds, err := a.deps.Store.FundsByType(ctx, "döviz", call.Days, call.Count)
	if err != nil {
		return "", err
	}
	if len(funds) == 0 {
		return "Döviz bazlı fon verisi bulamadım.", nil
	}

	label := "döviz"
	switch call.Currency {
	case route.CurrencyUSD:
		label = "dolar bazlı"
	case route.CurrencyEUR:
		label = "euro bazlı"
	case route.CurrencyGBP:
		label = "sterlin bazlı"
	}
	title := fmt.Sprintf("💱 En iyi %s fonlar (son %d gün):", label, call.Days)
	return formatPerformanceList(title, funds), nil
}
