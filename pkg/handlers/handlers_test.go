package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonlabs/fonrouter/pkg/fundstore"
	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/route"
)

func seedStore(t *testing.T) *fundstore.SQLiteStore {
	t.Helper()
	s, err := fundstore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	funds := []fundstore.Fund{
		{Code: "AAK", Name: "Alfa Katılım Fonu", Company: "Ak Portföy", Type: "katılım", Beta: 0.5, Sharpe: 1.5, Volatility: 0.5},
		{Code: "BBH", Name: "Beta Hisse Fonu", Company: "Garanti Portföy", Type: "hisse", Beta: 1.2, Sharpe: 0.8, Volatility: 2.0},
		{Code: "CCD", Name: "Ceta Döviz Fonu", Company: "İş Portföy", Type: "döviz", Beta: 0.9, Sharpe: 2.0, Volatility: 1.0},
	}
	for _, f := range funds {
		require.NoError(t, s.UpsertFund(ctx, f))
	}
	old := time.Now().AddDate(0, 0, -20)
	recent := time.Now().AddDate(0, 0, -1)
	prices := map[string][2]float64{"AAK": {10, 12}, "BBH": {10, 9}, "CCD": {10, 11}}
	for code, p := range prices {
		require.NoError(t, s.AddPrice(ctx, code, old, p[0]))
		require.NoError(t, s.AddPrice(ctx, code, recent, p[1]))
	}
	return s
}

func testDeps(t *testing.T) Deps {
	return Deps{Store: seedStore(t)}
}

func call(question string) route.HandlerCall {
	return route.HandlerCall{Question: question, Count: 10, Days: 30}
}

func TestRegisterAllAttachesInvokers(t *testing.T) {
	reg := registry.New()
	require.NoError(t, RegisterAll(reg, testDeps(t)))
	reg.Seal()

	all := reg.All()
	assert.Len(t, all, len(registry.DefaultCatalog()))
	for _, d := range all {
		assert.NotNil(t, d.Invoker, "invoker missing for %s", d.Name)
	}
}

func TestPerformanceSafestFunds(t *testing.T) {
	a := &PerformanceAnalyzer{deps: testDeps(t)}
	got, err := a.Invoke(context.Background(), "handle_safest_funds_sql_fast", call("en güvenli fonlar"))
	require.NoError(t, err)
	assert.Contains(t, got, "AAK")
	assert.Contains(t, got, "volatilite")
}

func TestPerformanceTopGainers(t *testing.T) {
	a := &PerformanceAnalyzer{deps: testDeps(t)}
	c := call("en çok kazandıranlar")
	c.Count = 1
	got, err := a.Invoke(context.Background(), "handle_top_gainers", c)
	require.NoError(t, err)
	assert.Contains(t, got, "AAK")
	assert.NotContains(t, got, "BBH")
}

func TestPerformanceAnalyzeFund(t *testing.T) {
	a := &PerformanceAnalyzer{deps: testDeps(t)}

	c := call("AAK fonunu analiz et")
	c.FundCode = "AAK"
	got, err := a.Invoke(context.Background(), "handle_analysis_question_dual", c)
	require.NoError(t, err)
	assert.Contains(t, got, "Alfa Katılım Fonu")
	assert.Contains(t, got, "Beta: 0.50")

	noCode, err := a.Invoke(context.Background(), "handle_analysis_question_dual", call("analiz et"))
	require.NoError(t, err)
	assert.Contains(t, noCode, "fon kodu")

	c.FundCode = "ZZZ"
	missing, err := a.Invoke(context.Background(), "handle_analysis_question_dual", c)
	require.NoError(t, err)
	assert.Contains(t, missing, "bulamadım")
}

func TestPerformanceUnknownMethod(t *testing.T) {
	a := &PerformanceAnalyzer{deps: testDeps(t)}
	_, err := a.Invoke(context.Background(), "handle_nope", call("x"))
	require.Error(t, err)
}

func TestMarketOverview(t *testing.T) {
	a := &MarketOverviewAnalyzer{deps: testDeps(t)}
	got, err := a.Invoke(context.Background(), "handle_market_overview", call("piyasa nasıl"))
	require.NoError(t, err)
	assert.Contains(t, got, "İzlenen fon sayısı: 3")
	assert.Contains(t, got, "Yükselen: 2")

	short, err := a.Invoke(context.Background(), "handle_market_summary", call("özet"))
	require.NoError(t, err)
	assert.Contains(t, short, "3 fondan 2 yükseldi")
}

func TestScenarioQuestion(t *testing.T) {
	a := &ScenarioAnalyzer{deps: testDeps(t)}
	c := call("enflasyon %50 olursa ne olur")
	c.Percentage = 50
	got, err := a.Invoke(context.Background(), "handle_scenario_question", c)
	require.NoError(t, err)
	assert.Contains(t, got, "%50")
	assert.Contains(t, got, "AAK")
}

func TestInflationProjection(t *testing.T) {
	a := &ScenarioAnalyzer{deps: testDeps(t)}
	c := call("enflasyon %15 olursa")
	c.Percentage = 15
	got, err := a.Invoke(context.Background(), "handle_inflation_projection", c)
	require.NoError(t, err)
	assert.Contains(t, got, "AAK")
	assert.Contains(t, got, "✅")
}

func TestFundComparison(t *testing.T) {
	a := &ComparisonAnalyzer{deps: testDeps(t)}

	got, err := a.Invoke(context.Background(), "handle_fund_comparison", call("AAK ile BBH fonlarını karşılaştır"))
	require.NoError(t, err)
	assert.Contains(t, got, "AAK")
	assert.Contains(t, got, "BBH")
	assert.Contains(t, got, "öne çıkan: AAK")

	single, err := a.Invoke(context.Background(), "handle_fund_comparison", call("AAK fonunu karşılaştır"))
	require.NoError(t, err)
	assert.Contains(t, single, "iki fon kodu")
}

func TestCompanyQuestion(t *testing.T) {
	a := &CompanyAnalyzer{deps: testDeps(t)}

	c := call("İş Portföy fonları nasıl")
	c.CompanyName = "İş Portföy"
	got, err := a.Invoke(context.Background(), "handle_company_question", c)
	require.NoError(t, err)
	assert.Contains(t, got, "CCD")

	noCompany, err := a.Invoke(context.Background(), "handle_company_question", call("şirket fonları"))
	require.NoError(t, err)
	assert.Contains(t, noCompany, "Hangi portföy şirketi")
}

func TestCombinedMetrics(t *testing.T) {
	a := &AdvancedMetricsAnalyzer{deps: testDeps(t)}

	c := call("beta 1 altı sharpe 1 üstü fonlar")
	c.Context = route.Context{
		BetaThreshold:    route.Float64Ptr(1.0),
		BetaComparison:   route.LessThan,
		SharpeThreshold:  route.Float64Ptr(1.0),
		SharpeComparison: route.GreaterThan,
	}
	got, err := a.Invoke(context.Background(), "handle_combined_metrics_analysis", c)
	require.NoError(t, err)
	assert.Contains(t, got, "CCD")
	assert.Contains(t, got, "AAK")
	assert.NotContains(t, got, "BBH")

	empty, err := a.Invoke(context.Background(), "handle_combined_metrics_analysis", call("metrik"))
	require.NoError(t, err)
	assert.Contains(t, empty, "eşiği belirtin")
}

func TestRetirementPlan(t *testing.T) {
	a := &PersonalFinanceAnalyzer{deps: testDeps(t)}
	c := call("35 yaşındayım emeklilik planı")
	c.YearsToGoal = 25
	c.Amount = 100000
	got, err := a.Invoke(context.Background(), "handle_retirement_plan", c)
	require.NoError(t, err)
	assert.Contains(t, got, "25 yıllık")
	assert.Contains(t, got, "100.000 TL")
	assert.Contains(t, got, "yüksek risk")
}

func TestGoalPlan(t *testing.T) {
	a := &PersonalFinanceAnalyzer{deps: testDeps(t)}
	c := call("ev almak için birikim")
	c.GoalType = route.GoalHouse
	c.YearsToGoal = 5
	got, err := a.Invoke(context.Background(), "handle_goal_plan", c)
	require.NoError(t, err)
	assert.Contains(t, got, "ev alımı")
	assert.Contains(t, got, "5 yıl")
}

func TestMarketTechnicals(t *testing.T) {
	a := &TechnicalAnalyzer{deps: testDeps(t)}
	got, err := a.Invoke(context.Background(), "handle_market_technicals", call("piyasa teknik"))
	require.NoError(t, err)
	assert.Contains(t, got, "momentum")
}

func TestTechnicalQuestionWithFund(t *testing.T) {
	a := &TechnicalAnalyzer{deps: testDeps(t)}
	c := call("AAK için RSI")
	c.FundCode = "AAK"
	got, err := a.Invoke(context.Background(), "handle_technical_question", c)
	require.NoError(t, err)
	// Only two observations seeded; RSI needs fifteen.
	assert.Contains(t, got, "yeterli gözlem yok")
}

func TestCurrencyFunds(t *testing.T) {
	a := &CurrencyAnalyzer{deps: testDeps(t)}
	c := call("dolar bazında fonlar")
	c.Currency = route.CurrencyUSD
	got, err := a.Invoke(context.Background(), "handle_currency_funds", c)
	require.NoError(t, err)
	assert.Contains(t, got, "CCD")
	assert.Contains(t, got, "dolar bazlı")
}

func TestPortfolioSuggestion(t *testing.T) {
	a := &PortfolioAnalyzer{deps: testDeps(t)}
	c := call("100 bin TL için portföy önerisi")
	c.Amount = 100000
	c.RiskTolerance = route.RiskLow
	got, err := a.Invoke(context.Background(), "handle_portfolio_suggestion", c)
	require.NoError(t, err)
	assert.Contains(t, got, "100.000 TL")
	assert.Contains(t, got, "düşük risk")
	assert.Contains(t, got, "AAK")
}

func TestComputeRSI(t *testing.T) {
	var rising []fundstore.PricePoint
	for i := 0; i < 20; i++ {
		rising = append(rising, fundstore.PricePoint{Price: float64(10 + i)})
	}
	rsi, ok := computeRSI(rising, 14)
	require.True(t, ok)
	assert.Equal(t, 100.0, rsi)

	_, ok = computeRSI(rising[:5], 14)
	assert.False(t, ok)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100.000 TL", formatAmount(100000))
	assert.Equal(t, "2.000.000 TL", formatAmount(2000000))
	assert.Equal(t, "500 TL", formatAmount(500))
}
