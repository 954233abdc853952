package router

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/route"
)

const llmSystemPrompt = "Sen bir fon sorusu siniflandiricisisin. " +
	"Kullanici sorusunu verilen handler kataloguna gore siniflandir. " +
	`Yalnizca JSON don: {"routes":[{"handler":"...","method":"...","confidence":0.0,"reasoning":"...","context":{}}]}`

// llmRoute is one candidate in the LLM response.
type llmRoute struct {
	Handler    string        `json:"handler"`
	Method     string        `json:"method"`
	Confidence float64       `json:"confidence"`
	Reasoning  string        `json:"reasoning"`
	Context    route.Context `json:"context"`
}

type llmResponse struct {
	Routes []llmRoute `json:"routes"`
}

// buildRoutingPrompt renders the handler catalog and the question for
// the LLM fallback classifier.
func buildRoutingPrompt(reg *registry.Registry, question string) string {
	var sb strings.Builder
	sb.WriteString("Handler katalogu:\n")
	for _, d := range reg.All() {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", d.Name, d.Description))
		for _, m := range d.Methods {
			sb.WriteString(fmt.Sprintf("  method %s", m.Name))
			if len(m.Triggers) > 0 {
				sb.WriteString(" (" + strings.Join(m.Triggers, ", ") + ")")
			}
			sb.WriteString("\n")
		}
		if len(d.Examples) > 0 {
			sb.WriteString("  ornekler: " + strings.Join(d.Examples, " | ") + "\n")
		}
	}
	sb.WriteString("\nSoru:\n")
	sb.WriteString(question)
	return sb.String()
}

// parseLLMRoutes extracts route candidates from an LLM completion. The
// primary format is a JSON object with a routes array; a key:value
// line format is accepted as a fallback because smaller models drift
// into it. Unparseable content yields no candidates, never an error.
func parseLLMRoutes(content string) []llmRoute {
	content = stripFences(content)
	if content == "" {
		return nil
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(content), &resp); err == nil && len(resp.Routes) > 0 {
		return validRoutes(resp.Routes)
	}

	// Some models return a bare array.
	var bare []llmRoute
	if err := json.Unmarshal([]byte(content), &bare); err == nil && len(bare) > 0 {
		return validRoutes(bare)
	}

	if r, ok := parseKeyValueRoute(content); ok {
		return validRoutes([]llmRoute{r})
	}
	return nil
}

func validRoutes(routes []llmRoute) []llmRoute {
	out := routes[:0]
	for _, r := range routes {
		if r.Handler == "" {
			continue
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			continue
		}
		out = append(out, r)
	}
	return out
}

// parseKeyValueRoute reads "handler: x" / "method: y" / "confidence: z"
// lines.
func parseKeyValueRoute(content string) (llmRoute, bool) {
	var r llmRoute
	for _, line := range strings.Split(content, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.Trim(strings.TrimSpace(value), `"',`)
		switch key {
		case "handler":
			r.Handler = value
		case "method":
			r.Method = value
		case "confidence":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				r.Confidence = f
			}
		case "reasoning", "reason":
			r.Reasoning = value
		}
	}
	return r, r.Handler != ""
}

func stripFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
