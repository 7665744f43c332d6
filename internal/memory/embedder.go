package memory

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder generates an embedding vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// DefaultHashDims is the vector size used by a zero HashEmbedder.
const DefaultHashDims = 256

// HashEmbedder is an offline bag-of-words embedder: each lower-cased word is
// hashed into one of Dims buckets and the counts are L2-normalised.
type HashEmbedder struct {
	Dims int
}

// Embed implements Embedder. Text without words yields a zero vector.
func (h HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	dims := h.Dims
	if dims <= 0 {
		dims = DefaultHashDims
	}

	v := make([]float32, dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		hash := fnv.New32a()
		hash.Write([]byte(w))
		v[hash.Sum32()%uint32(dims)]++
	}

	var norm float64
	for _, f := range v {
		norm += float64(f) * float64(f)
	}
	if norm == 0 {
		return v, nil
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= inv
	}
	return v, nil
}

var _ Embedder = HashEmbedder{}
