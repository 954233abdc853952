package merger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fonlabs/fonrouter/pkg/route"
)

func okResult(display, method, text string) route.HandlerResult {
	return route.HandlerResult{
		HandlerName: strings.ToLower(display),
		DisplayName: display,
		MethodName:  method,
		Text:        text,
		Status:      route.StatusOK,
		Reasoning:   "test",
	}
}

func failedResult(display, method, errText string) route.HandlerResult {
	return route.HandlerResult{
		DisplayName: display,
		MethodName:  method,
		Status:      route.StatusFailed,
		ErrorKind:   route.ErrInternal,
		Err:         errText,
	}
}

func TestMergeEmpty(t *testing.T) {
	assert.Equal(t, EmptyResponse, Merge(nil, "soru"))
	assert.Equal(t, EmptyResponse, Merge([]route.HandlerResult{}, "soru"))
}

func TestMergeSingleOKVerbatim(t *testing.T) {
	got := Merge([]route.HandlerResult{okResult("Performans", "handle_top_gainers", "en iyi fonlar listesi")}, "soru")
	assert.Equal(t, "en iyi fonlar listesi", got)
}

func TestMergeMultipleSections(t *testing.T) {
	got := Merge([]route.HandlerResult{
		okResult("Piyasa Genel Görünümü", "handle_market_overview", "piyasa özeti"),
		okResult("Performans Analizi", "handle_top_gainers", "kazandıranlar"),
	}, "kapsamlı piyasa analizi")

	assert.Contains(t, got, "2 bileşen")
	assert.Contains(t, got, "### Piyasa Genel Görünümü(handle_market_overview)")
	assert.Contains(t, got, "### Performans Analizi(handle_top_gainers)")
	assert.Contains(t, got, "piyasa özeti")
	assert.Contains(t, got, "kazandıranlar")
	assert.Less(t, strings.Index(got, "piyasa özeti"), strings.Index(got, "kazandıranlar"),
		"input order must be preserved")
	assert.NotContains(t, got, "Tamamlanamayan")
}

func TestMergeFailedFooter(t *testing.T) {
	got := Merge([]route.HandlerResult{
		okResult("Performans Analizi", "handle_top_gainers", "kazandıranlar"),
		failedResult("Teknik Analiz", "handle_technical_question", "db exploded"),
	}, "soru")

	assert.Contains(t, got, "kazandıranlar")
	assert.Contains(t, got, "Tamamlanamayan bileşenler")
	assert.Contains(t, got, "Teknik Analiz(handle_technical_question)")
	assert.Contains(t, got, "db exploded")
	assert.Contains(t, got, string(route.ErrInternal))
}

func TestMergeTimedOutLabel(t *testing.T) {
	r := route.HandlerResult{
		DisplayName: "Senaryo",
		MethodName:  "handle_scenario_question",
		Status:      route.StatusTimedOut,
		ErrorKind:   route.ErrTimeout,
	}
	got := Merge([]route.HandlerResult{okResult("A", "m", "x"), r}, "soru")
	assert.Contains(t, got, "zaman aşımı")
}

func TestMergeAllFailed(t *testing.T) {
	got := Merge([]route.HandlerResult{
		failedResult("A", "m1", "boom"),
		failedResult("B", "m2", "bang"),
	}, "soru")
	assert.Contains(t, got, "Tamamlanamayan bileşenler")
	assert.Contains(t, got, "boom")
	assert.Contains(t, got, "bang")
}

// Removing a failing result must shorten the footer and leave the
// successful text untouched.
func TestMergeFooterMonotonic(t *testing.T) {
	ok := okResult("Performans Analizi", "handle_top_gainers", "kazandıranlar")
	fail := failedResult("Teknik Analiz", "handle_technical_question", "db exploded")

	with := Merge([]route.HandlerResult{ok, fail}, "soru")
	without := Merge([]route.HandlerResult{ok, okResult("B", "m", "ek")}, "soru")

	assert.Greater(t, len(with), 0)
	assert.Contains(t, with, "kazandıranlar")
	assert.Contains(t, without, "kazandıranlar")
	assert.NotContains(t, without, "Tamamlanamayan")
}

func TestMergeSingleFailedNotVerbatim(t *testing.T) {
	got := Merge([]route.HandlerResult{failedResult("A", "m", "boom")}, "soru")
	assert.NotEqual(t, "boom", got)
	assert.Contains(t, got, "Tamamlanamayan bileşenler")
}
