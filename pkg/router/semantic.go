package router

import (
	"context"
	"fmt"
	"math"

	"github.com/fonlabs/fonrouter/pkg/registry"
	"github.com/fonlabs/fonrouter/pkg/turkish"
)

// DefaultSemanticThreshold is the minimum cosine similarity for a
// semantic route candidate.
const DefaultSemanticThreshold = 0.5

// EmbeddingEngine turns text into a dense vector.
type EmbeddingEngine interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// exampleVector is one embedded registry example.
type exampleVector struct {
	handler string
	vec     []float32
}

// SemanticIndex holds embedded handler examples for similarity search.
type SemanticIndex struct {
	engine  EmbeddingEngine
	vectors []exampleVector
}

// BuildSemanticIndex embeds every registered example. The index is
// built once at startup; an embedding failure aborts the build rather
// than leaving a partial index.
func BuildSemanticIndex(ctx context.Context, engine EmbeddingEngine, reg *registry.Registry) (*SemanticIndex, error) {
	if engine == nil {
		return nil, fmt.Errorf("embedding engine is required")
	}
	idx := &SemanticIndex{engine: engine}
	for _, d := range reg.All() {
		for _, example := range d.Examples {
			vec, err := engine.Embed(ctx, turkish.Fold(example))
			if err != nil {
				return nil, fmt.Errorf("embed example for %s: %w", d.Name, err)
			}
			idx.vectors = append(idx.vectors, exampleVector{handler: d.Name, vec: vec})
		}
	}
	return idx, nil
}

// Search embeds the folded question and returns the best similarity
// per handler, highest first, dropping handlers below the threshold.
func (idx *SemanticIndex) Search(ctx context.Context, folded string, threshold float64) (map[string]float64, error) {
	qvec, err := idx.engine.Embed(ctx, folded)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	best := make(map[string]float64)
	for _, ev := range idx.vectors {
		sim := cosineSimilarity(qvec, ev.vec)
		if sim < threshold {
			continue
		}
		if sim > best[ev.handler] {
			best[ev.handler] = sim
		}
	}
	return best, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
