package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/fundstore"
	"github.com/fonlabs/fonrouter/pkg/route"
)

var comparisonCodeRe = regexp.MustCompile(`\b[A-Z]{3}\b`)

// ComparisonAnalyzer compares two or more named funds.
type ComparisonAnalyzer struct {
	deps Deps
}

// Invoke dispatches one named method.
func (a *ComparisonAnalyzer) Invoke(ctx context.Context, method string, call route.HandlerCall) (string, error) {
	switch method {
	case "handle_fund_comparison":
		return a.compare(ctx, call)
	default:
		return "", unknownMethod("comparison_analyzer", method)
	}
}

func (a *ComparisonAnalyzer) compare(ctx context.Context, call route.HandlerCall) (string, error) {
	codes := distinctCodes(call.Question)
	if len(codes) < 2 {
		return "Karşılaştırma için iki fon kodu belirtin (örnek: \"TYH ile AFT fonlarını karşılaştır\").", nil
	}
	if len(codes) > 4 {
		codes = codes[:4]
	}

	type row struct {
		fund *fundstore.Fund
		ret  float64
	}
	var rows []row
	for _, code := range codes {
		fund, err := a.deps.Store.FundByCode(ctx, code)
		if errors.Is(err, fundstore.ErrNoData) {
			continue
		}
		if err != nil {
			return "", err
		}
		ret, err := a.deps.Store.FundReturn(ctx, code, call.Days)
		if err != nil && !errors.Is(err, fundstore.ErrNoData) {
			return "", err
		}
		rows = append(rows, row{fund: fund, ret: ret})
	}
	if len(rows) < 2 {
		return "Karşılaştırılacak fonların verisini bulamadım.", nil
	}

	best := 0
	for i := range rows {
		if rows[i].ret > rows[best].ret {
			best = i
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚖️ Fon karşılaştırması (son %d gün)\n\n", call.Days))
	for i, r := range rows {
		marker := ""
		if i == best {
			marker = " ← öne çıkan"
		}
		sb.WriteString(fmt.Sprintf("%s — %s\n  Getiri: %%%.2f | Beta: %.2f | Sharpe: %.2f | Volatilite: %.2f%s\n\n",
			r.fund.Code, r.fund.Name, r.ret, r.fund.Beta, r.fund.Sharpe, r.fund.Volatility, marker))
	}
	sb.WriteString(fmt.Sprintf("Getiri bazında öne çıkan: %s (%%%.2f)", rows[best].fund.Code, rows[best].ret))
	return sb.String(), nil
}

func distinctCodes(question string) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, m := range comparisonCodeRe.FindAllString(question, -1) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		codes = append(codes, m)
	}
	return codes
}
