package prize

import (
	"fmt"
	"math"

	"github.com/biokg/retriever/model"
)

// CosineSimilarity computes the cosine similarity between two vectors from
// the raw dot product over norms. Fails with InvalidEmbeddingError if the
// vectors differ in dimension or either has zero norm.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &model.InvalidEmbeddingError{
			Reason: fmt.Sprintf("dimension mismatch: %d vs %d", len(a), len(b)),
		}
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, &model.InvalidEmbeddingError{Reason: "zero-norm vector"}
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Clamp01 clamps a similarity to [0, 1] before weighting
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
