package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fonlabs/fonrouter/pkg/fundstore"
	"github.com/fonlabs/fonrouter/pkg/route"
)

// PerformanceAnalyzer answers return, risk and single-fund analysis
// questions.
type PerformanceAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *PerformanceAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_safest_funds_sql_fast":
		return a.safestFunds(ctx, call)
	case "handle_top_gainers":
		return a.topGainers(ctx, call)
	case "handle_worst_funds":
		return a.worstFunds(ctx, call)
	case "handle_analysis_question_dual":
		return a.analyzeFund(ctx, call)
	default:
		return "", unknownMethod("performance_analyzer", method)
	}
}

func (a *PerformanceAnalyzer) safestFunds(ctx context.Context, call route.HandlerCall) (string, error) {
	funds, err := a.deps.Store.SafestFunds(ctx, call.Days, call.Count)
	if err != nil {
		return "", err
	}
	title := fmt.Sprintf("🛡️ En düşük volatiliteli %d fon (son %d gün):", len(funds), call.Days)
	return formatPerformanceList(title, funds), nil
}

func (a *PerformanceAnalyzer) topGainers(ctx context.Context, call route.HandlerCall) (string, error) {
	funds, err := a.deps.Store.TopGainers(ctx, call.Days, call.Count)
	if err != nil {
		return "", err
	}
	title := fmt.Sprintf("📈 Son %d günün en çok kazandıran %d fonu:", call.Days, len(funds))
	return formatPerformanceList(title, funds), nil
}

func (a *PerformanceAnalyzer) worstFunds(ctx context.Context, call route.HandlerCall) (string, error) {
	funds, err := a.deps.Store.WorstFunds(ctx, call.Days, call.Count)
	if err != nil {
		return "", err
	}
	title := fmt.Sprintf("📉 Son %d günün en çok kaybettiren %d fonu:", call.Days, len(funds))
	return formatPerformanceList(title, funds), nil
}

// analyzeFund combines stored metrics with optional AI commentary for
// one fund. Details and the return series are fetched concurrently.
func (a *PerformanceAnalyzer) analyzeFund(ctx context.Context, call route.HandlerCall) (string, error) {
	if call.FundCode == "" {
		return "Analiz için bir fon kodu belirtin (örnek: \"TYH fonunu analiz et\").", nil
	}

	var (
		fund   *fundstore.Fund
		ret    float64
		series []fundstore.PricePoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fund, err = a.deps.Store.FundByCode(gctx, call.FundCode)
		return err
	})
	g.Go(func() error {
		var err error
		ret, err = a.deps.Store.FundReturn(gctx, call.FundCode, call.Days)
		if errors.Is(err, fundstore.ErrNoData) {
			ret = 0
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		series, err = a.deps.Store.PriceSeries(gctx, call.FundCode, call.Days)
		if errors.Is(err, fundstore.ErrNoData) {
			series = nil
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, fundstore.ErrNoData) {
			return fmt.Sprintf("%s kodlu bir fon bulamadım.", call.FundCode), nil
		}
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 %s — %s\n", fund.Code, fund.Name))
	sb.WriteString(fmt.Sprintf("Kurucu: %s | Tür: %s\n", fund.Company, fund.Type))
	sb.WriteString(fmt.Sprintf("Son %d gün getirisi: %%%.2f\n", call.Days, ret))
	sb.WriteString(fmt.Sprintf("Beta: %.2f | Sharpe: %.2f | Volatilite: %.2f\n", fund.Beta, fund.Sharpe, fund.Volatility))
	if len(series) > 0 {
		sb.WriteString(fmt.Sprintf("Fiyat aralığı: %.4f → %.4f (%d gözlem)\n",
			series[0].Price, series[len(series)-1].Price, len(series)))
	}

	if a.deps.Provider != nil {
		prompt := fmt.Sprintf("Soru: %s\n\nFon verisi:\n%s\nBu fonu kısaca yorumla.", call.Question, sb.String())
		commentary, err := a.deps.Provider.Query(ctx, prompt, "Sen bir TEFAS fon analistisin. Kısa ve net Türkçe yorum yap.")
		if err != nil {
			a.deps.Log.Warn().Err(err).Str("fund", call.FundCode).Msg("ai commentary unavailable")
		} else {
			sb.WriteString("\n💬 Yorum:\n" + commentary + "\n")
		}
	}
	return sb.String(), nil
}
