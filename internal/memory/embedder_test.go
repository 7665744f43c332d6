package memory

import (
	"context"
	"math"
	"testing"
)

func TestHashEmbedder_Embed(t *testing.T) {
	ctx := context.Background()
	e := HashEmbedder{Dims: 64}

	a, err := e.Embed(ctx, "What is a perceptron?")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 dims, got %d", len(a))
	}

	var norm float64
	for _, f := range a {
		norm += float64(f) * float64(f)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit vector, got squared norm %f", norm)
	}

	b, _ := e.Embed(ctx, "what IS a   perceptron")
	if sim := cosineSimilarity(a, b); math.Abs(float64(sim-1)) > 1e-5 {
		t.Errorf("case and punctuation should not matter, similarity %f", sim)
	}

	c, _ := e.Embed(ctx, "completely unrelated sentence about weather")
	if sim := cosineSimilarity(a, c); sim >= cosineSimilarity(a, b) {
		t.Errorf("unrelated text should be less similar, got %f", sim)
	}
}

func TestHashEmbedder_EmptyText(t *testing.T) {
	v, err := HashEmbedder{}.Embed(context.Background(), " ?! ")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(v) != DefaultHashDims {
		t.Fatalf("expected %d dims, got %d", DefaultHashDims, len(v))
	}
	for i, f := range v {
		if f != 0 {
			t.Fatalf("expected zero vector, element %d = %f", i, f)
		}
	}
}
