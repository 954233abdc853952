package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/route"
)

// ScenarioAnalyzer answers "what if" questions about inflation, rates
// and currency shocks.
type ScenarioAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *ScenarioAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_scenario_question":
		return a.scenario(ctx, call)
	case "handle_inflation_projection":
		return a.inflationProjection(ctx, call)
	default:
		return "", unknownMethod("scenario_analyzer", method)
	}
}

// scenario lists defensive picks for the described shock and, when the
// provider is configured, adds scenario commentary.
func (a *ScenarioAnalyzer) scenario(ctx context.Context, call route.HandlerCall) (string, error) {
	safest, err := a.deps.Store.SafestFunds(ctx, call.Days, 5)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("🔮 Senaryo değerlendirmesi\n\n")
	if call.Percentage > 0 {
		sb.WriteString(fmt.Sprintf("Sorudaki şok büyüklüğü: %%%d\n\n", call.Percentage))
	}
	if len(safest) == 0 {
		sb.WriteString(NoDataResponse)
		return sb.String(), nil
	}

	sb.WriteString("Böyle bir senaryoda tarihsel olarak dayanıklı, düşük volatiliteli fonlar:\n")
	for i, f := range safest {
		sb.WriteString(fmt.Sprintf("%d. %s — %s (volatilite %.2f)\n", i+1, f.Code, f.Name, f.Volatility))
	}

	if a.deps.Provider != nil {
		prompt := fmt.Sprintf("Senaryo sorusu: %s\n\nDayanıklı fon adayları:\n%s\nSenaryonun fon türlerine etkisini kısaca açıkla.",
			call.Question, sb.String())
		commentary, err := a.deps.Provider.Query(ctx, prompt, "Sen bir TEFAS fon analistisin. Kısa ve net Türkçe yorum yap.")
		if err != nil {
			a.deps.Log.Warn().Err(err).Msg("scenario commentary unavailable")
		} else {
			sb.WriteString("\n💬 Değerlendirme:\n" + commentary + "\n")
		}
	}
	return sb.String(), nil
}

// inflationProjection compares fund returns against the asked
// inflation figure.
func (a *ScenarioAnalyzer) inflationProjection(ctx context.Context, call route.HandlerCall) (string, error) {
	top, err := a.deps.Store.TopGainers(ctx, 365, call.Count)
	if err != nil {
		return "", err
	}
	if len(top) == 0 {
		return NoDataResponse, nil
	}

	target := float64(call.Percentage)
	var sb strings.Builder
	if target > 0 {
		sb.WriteString(fmt.Sprintf("💹 Yıllık %%%.0f enflasyona karşı fon getirileri:\n\n", target))
	} else {
		sb.WriteString("💹 Yıllık fon getirileri:\n\n")
	}
	for i, f := range top {
		marker := "⚠️"
		if target > 0 && f.ReturnPct >= target {
			marker = "✅"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s — yıllık %%%.2f %s\n", i+1, f.Code, f.Name, f.ReturnPct, marker))
	}
	return sb.String(), nil
}
