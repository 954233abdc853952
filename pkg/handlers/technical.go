package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/fundstore"
	"github.com/fonlabs/fonrouter/pkg/route"
)

// TechnicalAnalyzer computes indicator-style signals from stored
// price series.
type TechnicalAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *TechnicalAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_technical_question":
		return a.technicalQuestion(ctx, call)
	case "handle_market_technicals":
		return a.marketTechnicals(ctx, call)
	default:
		return "", unknownMethod("technical_analyzer", method)
	}
}

func (a *TechnicalAnalyzer) technicalQuestion(ctx context.Context, call route.HandlerCall) (string, error) {
	if call.FundCode == "" {
		return a.marketTechnicals(ctx, call)
	}

	series, err := a.deps.Store.PriceSeries(ctx, call.FundCode, 90)
	if errors.Is(err, fundstore.ErrNoData) {
		return fmt.Sprintf("%s için fiyat serisi bulamadım.", call.FundCode), nil
	}
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📐 %s teknik görünümü\n\n", call.FundCode))

	if rsi, ok := computeRSI(series, 14); ok {
		sb.WriteString(fmt.Sprintf("RSI(14): %.1f — %s\n", rsi, rsiLabel(rsi)))
	} else {
		sb.WriteString("RSI için yeterli gözlem yok.\n")
	}
	if ma, ok := movingAverage(series, 20); ok {
		last := series[len(series)-1].Price
		rel := "üstünde"
		if last < ma {
			rel = "altında"
		}
		sb.WriteString(fmt.Sprintf("Son fiyat %.4f, 20 günlük ortalamanın (%.4f) %s.\n", last, ma, rel))
	}
	return sb.String(), nil
}

func (a *TechnicalAnalyzer) marketTechnicals(ctx context.Context, call route.HandlerCall) (string, error) {
	sum, err := a.deps.Store.MarketSummary(ctx, call.Days)
	if errors.Is(err, fundstore.ErrNoData) {
		return NoDataResponse, nil
	}
	if err != nil {
		return "", err
	}

	breadth := 0.0
	if sum.FundCount > 0 {
		breadth = float64(sum.Gainers) / float64(sum.FundCount) * 100
	}
	momentum := "nötr"
	if breadth >= 60 {
		momentum = "pozitif"
	} else if breadth <= 40 {
		momentum = "negatif"
	}
	return fmt.Sprintf("📐 Piyasa teknik özeti (son %d gün): genişlik %%%.0f (%d/%d fon yükselişte), momentum %s.",
		call.Days, breadth, sum.Gainers, sum.FundCount, momentum), nil
}

// computeRSI is the standard Wilder RSI over closing prices.
func computeRSI(series []fundstore.PricePoint, period int) (float64, bool) {
	if len(series) < period+1 {
		return 0, false
	}
	var gains, losses float64
	for i := len(series) - period; i < len(series); i++ {
		delta := series[i].Price - series[i-1].Price
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	if losses == 0 {
		return 100, true
	}
	rs := gains / losses
	return 100 - 100/(1+rs), true
}

func movingAverage(series []fundstore.PricePoint, window int) (float64, bool) {
	if len(series) < window {
		return 0, false
	}
	var sum float64
	for _, p := range series[len(series)-window:] {
		sum += p.Price
	}
	return sum / float64(window), true
}

func rsiLabel(rsi float64) string {
	switch {
	case rsi >= 70:
		return "aşırı alım bölgesi"
	case rsi <= 30:
		return "aşırı satım bölgesi"
	default:
		return "nötr bölge"
	}
}
