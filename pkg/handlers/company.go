package handlers

import (
	"context"
	"fmt"

	"github.com/fonlabs/fonrouter/pkg/route"
)

// CompanyAnalyzer answers questions scoped to one portfolio company.
type CompanyAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *CompanyAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_company_question":
		return a.companyFunds(ctx, call)
	default:
		return "", unknownMethod("company_analyzer", method)
	}
}

func (a *CompanyAnalyzer) companyFunds(ctx context.Context, call route.HandlerCall) (string, error) {
	if call.CompanyName == "" {
		return "Hangi portföy şirketini soruyorsunuz? (örnek: \"İş Portföy fonları nasıl?\")", nil
	}

	funds, err := a.deps.Store.FundsByCompany(ctx, call.CompanyName, call.Days, call.Count)
	if err != nil {
		return "", err
	}
	if len(funds) == 0 {
		return fmt.Sprintf("%s için kayıtlı fon bulamadım.", call.CompanyName), nil
	}

	title := fmt.Sprintf("🏢 %s fonları (son %d gün, getiriye göre):", call.CompanyName, call.Days)
	return formatPerformanceList(title, funds), nil
}
