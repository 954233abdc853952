package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonlabs/fonrouter/pkg/route"
	"github.com/fonlabs/fonrouter/pkg/turkish"
)

func newCatalogRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	for _, d := range DefaultCatalog() {
		require.NoError(t, r.Register(d))
	}
	r.Seal()
	return r
}

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Descriptor{Name: "a"}))
	err := r.Register(Descriptor{Name: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestRegisterAfterSeal(t *testing.T) {
	r := New()
	r.Seal()
	require.Error(t, r.Register(Descriptor{Name: "late"}))
}

func TestRegisterDefaults(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(Descriptor{Name: "bare"}))
	d, err := r.Get("bare")
	require.NoError(t, err)
	assert.Equal(t, DefaultExecutionOrder, d.ExecutionOrder)
	assert.Equal(t, "bare", d.DisplayName)
}

func TestGetNotFound(t *testing.T) {
	r := New()
	_, err := r.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := newCatalogRegistry(t)
	all := r.All()
	require.NotEmpty(t, all)
	assert.Equal(t, "performance_analyzer", all[0].Name)
	assert.Equal(t, 0, r.RegistrationIndex("performance_analyzer"))
}

func TestScorePattern(t *testing.T) {
	r := newCatalogRegistry(t)
	perf, err := r.Get("performance_analyzer")
	require.NoError(t, err)

	tests := []struct {
		name    string
		folded  string
		wantMin float64
	}{
		{"safest funds", turkish.Fold("en güvenli 10 fon"), 0.95},
		{"analysis", turkish.Fold("TYH fonunu analiz et"), 0.93},
		{"generic best fund", turkish.Fold("en iyi fon"), 0.85},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ScorePattern(tt.folded, perf.Patterns)
			assert.GreaterOrEqual(t, got, tt.wantMin)
		})
	}

	assert.Zero(t, r.ScorePattern("tamamen alakasiz bir soru", perf.Patterns))
}

func TestScoreKeywords(t *testing.T) {
	r := newCatalogRegistry(t)
	d, err := r.Get("advanced_metrics_analyzer")
	require.NoError(t, err)

	score := r.ScoreKeywords(turkish.Fold("beta ve sharpe oranlarına bak"), d)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)

	assert.Zero(t, r.ScoreKeywords("hic eslesme yok burada", d))
}

func TestScoreExamples(t *testing.T) {
	r := newCatalogRegistry(t)
	d, err := r.Get("performance_analyzer")
	require.NoError(t, err)

	high := r.ScoreExamples(turkish.Fold("en güvenli 10 fon hangileri"), d)
	assert.Greater(t, high, 0.9)

	low := r.ScoreExamples("tamamen farkli kelimeler", d)
	assert.Less(t, low, 0.2)
}

func TestSelectMethod(t *testing.T) {
	r := newCatalogRegistry(t)
	perf, err := r.Get("performance_analyzer")
	require.NoError(t, err)

	tests := []struct {
		folded string
		want   string
	}{
		{turkish.Fold("en güvenli 10 fon"), "handle_safest_funds_sql_fast"},
		{turkish.Fold("en çok kazandıran fonlar"), "handle_top_gainers"},
		{turkish.Fold("TYH fonunu analiz et"), "handle_analysis_question_dual"},
		{turkish.Fold("alakasız soru"), "handle_safest_funds_sql_fast"}, // first method fallback
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.SelectMethod(tt.folded, perf))
	}

	metrics, err := r.Get("advanced_metrics_analyzer")
	require.NoError(t, err)
	assert.Equal(t, "handle_beta_analysis", r.SelectMethod(turkish.Fold("beta değeri düşük fonlar"), metrics))
	assert.Equal(t, "handle_combined_metrics_analysis", r.SelectMethod("hicbir tetikleyici yok", metrics))
}

func TestClassifyByPriorityRules(t *testing.T) {
	r := newCatalogRegistry(t)

	t.Run("scenario marker preempts", func(t *testing.T) {
		folded := turkish.Fold("Enflasyon %50 olursa hangi fonlar kazandırır")
		matches := r.ClassifyByPriorityRules(folded, route.Context{Percentage: route.IntPtr(50)})
		require.Len(t, matches, 1)
		m := matches[0]
		assert.Equal(t, "scenario_analyzer", m.Handler)
		assert.Equal(t, "handle_scenario_question", m.Method)
		assert.Equal(t, RuleConfidence, m.Confidence)
		assert.Equal(t, route.MatchRule, m.MatchType)
		assert.Equal(t, "rule:scenario_marker", m.Reasoning)
		require.NotNil(t, m.Context.Percentage)
		assert.Equal(t, 50, *m.Context.Percentage)
	})

	t.Run("combined metrics", func(t *testing.T) {
		folded := turkish.Fold("Beta 0.8 altında Sharpe 1.2 üstünde fonlar")
		matches := r.ClassifyByPriorityRules(folded, route.Context{})
		require.Len(t, matches, 1)
		assert.Equal(t, "advanced_metrics_analyzer", matches[0].Handler)
		assert.Equal(t, "handle_combined_metrics_analysis", matches[0].Method)
	})

	t.Run("company context fires first", func(t *testing.T) {
		matches := r.ClassifyByPriorityRules("is portfoy fonlari nasil", route.Context{CompanyName: "İş Portföy"})
		require.Len(t, matches, 1)
		assert.Equal(t, "company_analyzer", matches[0].Handler)
	})

	t.Run("comprehensive market expands to multi", func(t *testing.T) {
		folded := turkish.Fold("kapsamlı piyasa analizi")
		matches := r.ClassifyByPriorityRules(folded, route.Context{})
		require.GreaterOrEqual(t, len(matches), 2)
		for _, m := range matches {
			assert.True(t, m.IsMultiHandler)
		}
		assert.Equal(t, "market_overview_analyzer", matches[0].Handler)
	})

	t.Run("no rule", func(t *testing.T) {
		assert.Nil(t, r.ClassifyByPriorityRules(turkish.Fold("en güvenli 10 fon"), route.Context{}))
	})
}
