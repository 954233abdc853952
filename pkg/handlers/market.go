package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/fundstore"
	"github.com/fonlabs/fonrouter/pkg/route"
)

// MarketOverviewAnalyzer summarizes the whole fund market.
type MarketOverviewAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *MarketOverviewAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_market_overview":
		return a.overview(ctx, call)
	case "handle_market_summary":
		return a.summary(ctx, call)
	default:
		return "", unknownMethod("market_overview_analyzer", method)
	}
}

func (a *MarketOverviewAnalyzer) overview(ctx context.Context, call route.HandlerCall) (string, error) {
	sum, err := a.deps.Store.MarketSummary(ctx, call.Days)
	if errors.Is(err, fundstore.ErrNoData) {
		return NoDataResponse, nil
	}
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏛️ Fon piyasası genel görünümü (son %d gün)\n\n", call.Days))
	sb.WriteString(fmt.Sprintf("İzlenen fon sayısı: %d\n", sum.FundCount))
	sb.WriteString(fmt.Sprintf("Yükselen: %d | Düşen: %d\n", sum.Gainers, sum.Losers))
	sb.WriteString(fmt.Sprintf("Ortalama getiri: %%%.2f\n", sum.AvgReturnPct))
	sb.WriteString("\n" + marketMood(sum))

	if top, err := a.deps.Store.TopGainers(ctx, call.Days, 3); err == nil && len(top) > 0 {
		sb.WriteString("\n\nÖne çıkanlar:\n")
		for _, f := range top {
			sb.WriteString(fmt.Sprintf("- %s %s: %%%.2f\n", f.Code, f.Name, f.ReturnPct))
		}
	}
	return sb.String(), nil
}

func (a *MarketOverviewAnalyzer) summary(ctx context.Context, call route.HandlerCall) (string, error) {
	sum, err := a.deps.Store.MarketSummary(ctx, call.Days)
	if errors.Is(err, fundstore.ErrNoData) {
		return NoDataResponse, nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Piyasa özeti: %d fondan %d yükseldi, %d düştü. Ortalama getiri %%%.2f. %s",
		sum.FundCount, sum.Gainers, sum.Losers, sum.AvgReturnPct, marketMood(sum)), nil
}

func marketMood(sum *fundstore.MarketSummary) string {
	switch {
	case sum.AvgReturnPct > 2:
		return "Piyasa genel olarak güçlü bir yükseliş eğiliminde."
	case sum.AvgReturnPct > 0:
		return "Piyasa hafif pozitif seyrediyor."
	case sum.AvgReturnPct > -2:
		return "Piyasa hafif negatif seyrediyor."
	default:
		return "Piyasa genelinde belirgin bir düşüş var."
	}
}
