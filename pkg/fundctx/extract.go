// Package fundctx extracts structured parameters from raw Turkish
// questions about TEFAS funds. Extraction is purely rule based: the
// same question always yields the same context, and extraction never
// fails — unknown information simply stays unset.
package fundctx

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fonlabs/fonrouter/pkg/route"
	"github.com/fonlabs/fonrouter/pkg/turkish"
)

var (
	fundCodeRe = regexp.MustCompile(`\b[A-Z]{3}\b`)
	countRe    = regexp.MustCompile(`(\d+)\s*(fon|tane|adet)\b`)
	intRe      = regexp.MustCompile(`\d+`)
	sonRe      = regexp.MustCompile(`son\s*(\d+)\s*(gun|ay|yil)`)
	amountRe   = regexp.MustCompile(`(\d+)\s*(milyon|bin|lira|tl|k|m)\b`)
	pctRe      = regexp.MustCompile(`%\s*(\d+)`)
	yearsRe    = regexp.MustCompile(`(\d+)\s*yil`)
	betaRe     = regexp.MustCompile(`beta\s*(?:degeri|katsayisi)?\s*[:=]?\s*(\d+(?:[.,]\d+)?)`)
	sharpeRe   = regexp.MustCompile(`sharpe\s*(?:orani|degeri)?\s*[:=]?\s*(\d+(?:[.,]\d+)?)`)
)

// periodTable maps the fixed period phrases to (period, days).
var periodTable = []struct {
	phrase string
	period route.Period
	days   int
}{
	{"bugun", route.PeriodToday, 1},
	{"bu hafta", route.PeriodWeek, 7},
	{"bu ay", route.PeriodMonth, 30},
	{"bu yil", route.PeriodYear, 365},
}

var amountMultiplier = map[string]int64{
	"bin":    1_000,
	"k":      1_000,
	"milyon": 1_000_000,
	"m":      1_000_000,
	"tl":     1,
	"lira":   1,
}

var timeUnitDays = map[string]int{"gun": 1, "ay": 30, "yil": 365}

// fundCueTokens are words whose neighborhood promotes a three-letter
// token to a fund code.
func isFundCue(token string) bool {
	return strings.HasPrefix(token, "fon") || token == "yatirim" || token == "hisse"
}

// Extractor parses questions into route.Context values.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor returns an Extractor logging through log.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{log: log.With().Str("component", "fundctx").Logger()}
}

// Extract runs every extraction rule in precedence order and returns
// the resulting context. The original question is preserved verbatim
// in Context.Question.
func (e *Extractor) Extract(question string) route.Context {
	ctx := route.Context{Question: question}
	if strings.TrimSpace(question) == "" {
		return ctx
	}

	folded := turkish.Fold(question)

	ctx.FundCode = extractFundCode(question)
	ctx.RequestedCount = extractCount(folded)
	extractTimeWindow(folded, &ctx)
	ctx.Amount = extractAmount(folded)
	ctx.Percentage = extractPercentage(folded)
	ctx.Currency = extractCurrency(folded)
	extractGoal(folded, &ctx)
	ctx.RiskTolerance = extractRisk(folded)
	extractThreshold(folded, betaRe, &ctx.BetaThreshold, &ctx.BetaComparison)
	extractThreshold(folded, sharpeRe, &ctx.SharpeThreshold, &ctx.SharpeComparison)
	ctx.CompanyName = extractCompany(folded)

	e.log.Debug().
		Str("fund_code", ctx.FundCode).
		Str("company", ctx.CompanyName).
		Msg("context extracted")
	return ctx
}

// extractFundCode scans the original-case text for three-letter
// uppercase tokens, drops blocklisted ones and prefers a survivor
// adjacent to a fund cue word or sitting at sentence start/end.
func extractFundCode(question string) string {
	matches := fundCodeRe.FindAllString(question, -1)
	if len(matches) == 0 {
		return ""
	}

	tokens := turkish.Tokens(question)
	var survivors []string
	for _, m := range matches {
		if _, blocked := codeBlocklist[m]; !blocked {
			survivors = append(survivors, m)
		}
	}
	if len(survivors) == 0 {
		return ""
	}

	for _, code := range survivors {
		idx := -1
		for i, tok := range tokens {
			if tok == code {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		if idx == 0 || idx == len(tokens)-1 {
			return code
		}
		lo, hi := idx-2, idx+2
		if lo < 0 {
			lo = 0
		}
		if hi > len(tokens)-1 {
			hi = len(tokens) - 1
		}
		for i := lo; i <= hi; i++ {
			if i == idx {
				continue
			}
			if isFundCue(turkish.Fold(tokens[i])) {
				return code
			}
		}
	}

	return survivors[0]
}

// extractCount applies the "N fon/tane/adet" rule first and falls back
// to the largest bare integer. No integer means no count.
func extractCount(folded string) *int {
	if m := countRe.FindStringSubmatch(folded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return &n
		}
	}
	best := 0
	for _, m := range intRe.FindAllString(folded, -1) {
		if n, err := strconv.Atoi(m); err == nil && n > best {
			best = n
		}
	}
	if best > 0 {
		return &best
	}
	return nil
}

func extractTimeWindow(folded string, ctx *route.Context) {
	if m := sonRe.FindStringSubmatch(folded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			days := n * timeUnitDays[m[2]]
			ctx.Days = &days
		}
	}
	for _, p := range periodTable {
		if strings.Contains(folded, p.phrase) {
			ctx.Period = p.period
			if ctx.Days == nil {
				d := p.days
				ctx.Days = &d
			}
			return
		}
	}
}

func extractAmount(folded string) *int64 {
	m := amountRe.FindStringSubmatch(folded)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	v := n * amountMultiplier[m[2]]
	return &v
}

func extractPercentage(folded string) *int {
	m := pctRe.FindStringSubmatch(folded)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 || n > 1000 {
		return nil
	}
	return &n
}

func extractCurrency(folded string) route.Currency {
	switch {
	case strings.Contains(folded, "dolar") || strings.Contains(folded, "usd"):
		return route.CurrencyUSD
	case strings.Contains(folded, "euro") || strings.Contains(folded, "eur"):
		return route.CurrencyEUR
	case strings.Contains(folded, "sterlin"):
		return route.CurrencyGBP
	}
	return ""
}

func extractGoal(folded string, ctx *route.Context) {
	if !strings.Contains(folded, "emeklilik") && !strings.Contains(folded, "emekli") {
		return
	}
	ctx.GoalType = route.GoalRetirement
	if m := yearsRe.FindStringSubmatch(folded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
			ctx.YearsToGoal = &n
		}
	}
}

func extractRisk(folded string) route.RiskTolerance {
	switch {
	case strings.Contains(folded, "cok agresif"):
		return route.RiskVeryHigh
	case strings.Contains(folded, "yuksek risk") || strings.Contains(folded, "agresif"):
		return route.RiskHigh
	case strings.Contains(folded, "guvenli") ||
		strings.Contains(folded, "dusuk risk") ||
		strings.Contains(folded, "az risk"):
		return route.RiskLow
	}
	return ""
}

// extractThreshold pulls "beta 0.8 altında" style constraints. The
// comparison direction is read from the words following the number.
func extractThreshold(folded string, re *regexp.Regexp, value **float64, cmp *route.Comparison) {
	loc := re.FindStringSubmatchIndex(folded)
	if loc == nil {
		return
	}
	raw := strings.ReplaceAll(folded[loc[2]:loc[3]], ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return
	}
	*value = &v

	tail := folded[loc[1]:]
	if len(tail) > 24 {
		tail = tail[:24]
	}
	switch {
	case strings.Contains(tail, "alt") || strings.Contains(tail, "dusuk") || strings.Contains(tail, "kucuk"):
		*cmp = route.LessThan
	case strings.Contains(tail, "ust") || strings.Contains(tail, "yuksek") || strings.Contains(tail, "buyuk"):
		*cmp = route.GreaterThan
	}
}

func extractCompany(folded string) string {
	for _, c := range companyCanon {
		if strings.Contains(folded, c.cue) {
			return c.name
		}
	}
	return ""
}
