package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/route"
)

// PersonalFinanceAnalyzer builds retirement and savings-goal plans.
type PersonalFinanceAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *PersonalFinanceAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_retirement_plan":
		return a.retirementPlan(ctx, call)
	case "handle_goal_plan":
		return a.goalPlan(ctx, call)
	default:
		return "", unknownMethod("personal_finance_analyzer", method)
	}
}

func (a *PersonalFinanceAnalyzer) retirementPlan(ctx context.Context, call route.HandlerCall) (string, error) {
	years := call.YearsToGoal
	if years <= 0 {
		years = 20
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👴 Emeklilik planı (%d yıllık ufuk)\n\n", years))
	if call.Amount > 0 {
		sb.WriteString(fmt.Sprintf("Başlangıç birikimi: %s\n\n", formatAmount(call.Amount)))
	}

	risk := call.RiskTolerance
	if risk == "" {
		// Long horizons tolerate more equity risk.
		if years >= 15 {
			risk = route.RiskHigh
		} else if years >= 7 {
			risk = route.RiskMedium
		} else {
			risk = route.RiskLow
		}
	}
	sb.WriteString(allocationFor(risk))

	safest, err := a.deps.Store.SafestFunds(ctx, call.Days, 3)
	if err != nil {
		return "", err
	}
	if len(safest) > 0 {
		sb.WriteString("\nİstikrarlı taban için aday fonlar:\n")
		for _, f := range safest {
			sb.WriteString(fmt.Sprintf("- %s %s (volatilite %.2f)\n", f.Code, f.Name, f.Volatility))
		}
	}
	return sb.String(), nil
}

func (a *PersonalFinanceAnalyzer) goalPlan(ctx context.Context, call route.HandlerCall) (string, error) {
	goal := call.GoalType
	if goal == "" {
		goal = route.GoalGeneral
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎯 Birikim planı — %s\n\n", goalLabel(goal)))
	if call.YearsToGoal > 0 {
		sb.WriteString(fmt.Sprintf("Hedef süre: %d yıl\n", call.YearsToGoal))
	}
	if call.Amount > 0 {
		sb.WriteString(fmt.Sprintf("Hedef/başlangıç tutarı: %s\n", formatAmount(call.Amount)))
	}
	sb.WriteString("\n")

	risk := call.RiskTolerance
	if risk == "" {
		if call.YearsToGoal >= 5 {
			risk = route.RiskMedium
		} else {
			risk = route.RiskLow
		}
	}
	sb.WriteString(allocationFor(risk))

	top, err := a.deps.Store.TopGainers(ctx, 365, 3)
	if err != nil {
		return "", err
	}
	if len(top) > 0 {
		sb.WriteString("\nBüyüme ayağı için yıllık getirisi güçlü fonlar:\n")
		for _, f := range top {
			sb.WriteString(fmt.Sprintf("- %s %s (yıllık %%%.2f)\n", f.Code, f.Name, f.ReturnPct))
		}
	}
	return sb.String(), nil
}

func allocationFor(risk route.RiskTolerance) string {
	switch risk {
	case route.RiskLow:
		return "Önerilen dağılım (düşük risk): %60 para piyasası, %30 borçlanma, %10 hisse fonu.\n"
	case route.RiskHigh, route.RiskVeryHigh:
		return "Önerilen dağılım (yüksek risk): %60 hisse, %25 döviz/altın, %15 para piyasası fonu.\n"
	default:
		return "Önerilen dağılım (orta risk): %40 hisse, %35 borçlanma, %25 para piyasası fonu.\n"
	}
}

func goalLabel(goal route.GoalType) string {
	switch goal {
	case route.GoalRetirement:
		return "emeklilik"
	case route.GoalHouse:
		return "ev alımı"
	case route.GoalEducation:
		return "eğitim"
	default:
		return "genel birikim"
	}
}
