// Package registry is the single source of truth for handler metadata:
// examples, keywords, patterns, method triggers and dispatch targets.
// It is populated once at startup and read-only afterwards.
package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fonlabs/fonrouter/pkg/route"
	"github.com/fonlabs/fonrouter/pkg/turkish"
)

// Pattern scores a question against either a regular expression or a
// contains-all word set. Exactly one of Regex / ContainsAll is set.
// Pattern text is authored in folded ASCII form; the registry matches
// it against the folded question.
type Pattern struct {
	Regex       string
	ContainsAll []string
	Score       float64

	re *regexp.Regexp
}

// Method names one callable method of a handler together with the
// substrings that select it.
type Method struct {
	Name     string
	Triggers []string
}

// Descriptor is the declarative record for one handler.
type Descriptor struct {
	Name           string
	DisplayName    string
	Description    string
	Examples       []string
	Keywords       []string
	Patterns       []Pattern
	Methods        []Method
	ExecutionOrder int
	Invoker        route.Invoker

	foldedKeywords []string
	foldedExamples [][]string
}

// DefaultExecutionOrder is used when a descriptor does not set one.
const DefaultExecutionOrder = 50

// Registry holds registered descriptors in registration order.
type Registry struct {
	order  []string
	byName map[string]*Descriptor
	sealed bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Duplicate names and registration after
// Seal are rejected. Patterns are compiled and keyword/example text is
// folded once here so request-path scoring stays allocation-light.
func (r *Registry) Register(d Descriptor) error {
	if r.sealed {
		return fmt.Errorf("register %q: registry is sealed", d.Name)
	}
	if d.Name == "" {
		return fmt.Errorf("register: empty handler name")
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("register %q: duplicate handler name", d.Name)
	}
	if d.ExecutionOrder == 0 {
		d.ExecutionOrder = DefaultExecutionOrder
	}
	if d.DisplayName == "" {
		d.DisplayName = d.Name
	}

	for i := range d.Patterns {
		p := &d.Patterns[i]
		if p.Regex != "" {
			re, err := regexp.Compile(p.Regex)
			if err != nil {
				return fmt.Errorf("register %q: pattern %q: %w", d.Name, p.Regex, err)
			}
			p.re = re
		}
	}

	d.foldedKeywords = make([]string, len(d.Keywords))
	for i, kw := range d.Keywords {
		d.foldedKeywords[i] = turkish.Fold(kw)
	}
	d.foldedExamples = make([][]string, len(d.Examples))
	for i, ex := range d.Examples {
		d.foldedExamples[i] = turkish.Tokens(turkish.Fold(ex))
	}

	r.byName[d.Name] = &d
	r.order = append(r.order, d.Name)
	return nil
}

// Seal freezes the registry. Request paths must only run against a
// sealed registry.
func (r *Registry) Seal() { r.sealed = true }

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (*Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("handler %q not found", name)
	}
	return d, nil
}

// All returns descriptors in registration order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// RegistrationIndex returns the registration position of a handler,
// used as the final tie-break in route ordering.
func (r *Registry) RegistrationIndex(name string) int {
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return len(r.order)
}

// ScorePattern returns the highest score of any pattern matching the
// folded question, 0 when none match.
func (r *Registry) ScorePattern(folded string, patterns []Pattern) float64 {
	best := 0.0
	for _, p := range patterns {
		matched := false
		switch {
		case p.re != nil:
			matched = p.re.MatchString(folded)
		case len(p.ContainsAll) > 0:
			matched = true
			for _, w := range p.ContainsAll {
				if !strings.Contains(folded, w) {
					matched = false
					break
				}
			}
		}
		if matched && p.Score > best {
			best = p.Score
		}
	}
	return best
}

// ScoreKeywords returns the fraction of keywords present plus a small
// per-match bonus, clamped to 1.
func (r *Registry) ScoreKeywords(folded string, d *Descriptor) float64 {
	if len(d.foldedKeywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range d.foldedKeywords {
		if strings.Contains(folded, kw) {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	score := float64(matched)/float64(len(d.foldedKeywords)) + 0.05*float64(matched)
	if score > 1 {
		score = 1
	}
	return score
}

// ScoreExamples returns the best word-overlap ratio between the
// question and any registered example.
func (r *Registry) ScoreExamples(folded string, d *Descriptor) float64 {
	qTokens := turkish.Tokens(folded)
	if len(qTokens) == 0 {
		return 0
	}
	qSet := make(map[string]struct{}, len(qTokens))
	for _, t := range qTokens {
		qSet[t] = struct{}{}
	}

	best := 0.0
	for _, exTokens := range d.foldedExamples {
		if len(exTokens) == 0 {
			continue
		}
		exSet := make(map[string]struct{}, len(exTokens))
		for _, t := range exTokens {
			exSet[t] = struct{}{}
		}
		common := 0
		for t := range qSet {
			if _, ok := exSet[t]; ok {
				common++
			}
		}
		union := len(qSet) + len(exSet) - common
		if union == 0 {
			continue
		}
		if ratio := float64(common) / float64(union); ratio > best {
			best = ratio
		}
	}
	return best
}

// SelectMethod picks the first method whose trigger substring appears
// in the folded question, falling back to the first declared method.
func (r *Registry) SelectMethod(folded string, d *Descriptor) string {
	for _, m := range d.Methods {
		for _, trig := range m.Triggers {
			if strings.Contains(folded, turkish.Fold(trig)) {
				return m.Name
			}
		}
	}
	if len(d.Methods) > 0 {
		return d.Methods[0].Name
	}
	return ""
}
