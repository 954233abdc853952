// Package merger renders executor results into a single text payload.
// It never re-orders, never drops OK content and never consults the
// AI provider.
package merger

import (
	"fmt"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/route"
)

// EmptyResponse is returned when no handler produced output.
const EmptyResponse = "Sorunuza uygun bir analiz bulunamadı. Lütfen soruyu farklı şekilde ifade etmeyi deneyin."

const sectionSeparator = "\n\n────────────────────────\n\n"

// Merge renders results in their given order. A single OK result is
// returned verbatim; multiple results get a header, per-result
// subtitles and a failed-components footer.
func Merge(results []route.HandlerResult, question string) string {
	if len(results) == 0 {
		return EmptyResponse
	}
	if len(results) == 1 && results[0].OK() {
		return results[0].Text
	}

	var ok, failed []route.HandlerResult
	for _, r := range results {
		if r.OK() {
			ok = append(ok, r)
		} else {
			failed = append(failed, r)
		}
	}
	if len(ok) == 0 && len(failed) == 0 {
		return EmptyResponse
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Çoklu Analiz Sonucu (%d bileşen)\n", len(results)))
	if reasons := reasoningSummary(results); reasons != "" {
		sb.WriteString("Sınıflandırma: " + reasons + "\n")
	}

	var sections []string
	for _, r := range ok {
		section := fmt.Sprintf("### %s(%s)\n\n%s", r.DisplayName, r.MethodName, r.Text)
		sections = append(sections, section)
	}
	if len(sections) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(sections, sectionSeparator))
	}

	if len(failed) > 0 {
		sb.WriteString("\n\n⚠️ Tamamlanamayan bileşenler:\n")
		for _, r := range failed {
			sb.WriteString(fmt.Sprintf("- %s(%s): %s [%s]\n", r.DisplayName, r.MethodName, failureLabel(r), r.ErrorKind))
		}
	}
	return sb.String()
}

// reasoningSummary joins distinct non-empty reasonings, shortest form
// of the "optional AI reasoning summary" in the header.
func reasoningSummary(results []route.HandlerResult) string {
	seen := make(map[string]struct{})
	var parts []string
	for _, r := range results {
		if r.Reasoning == "" {
			continue
		}
		if _, ok := seen[r.Reasoning]; ok {
			continue
		}
		seen[r.Reasoning] = struct{}{}
		parts = append(parts, r.Reasoning)
	}
	return strings.Join(parts, "; ")
}

func failureLabel(r route.HandlerResult) string {
	switch r.Status {
	case route.StatusTimedOut:
		return "zaman aşımı"
	default:
		if r.Err != "" {
			return r.Err
		}
		return "başarısız"
	}
}
