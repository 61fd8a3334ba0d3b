package secguide

import "context"

// EmbedDim is the width of every stored embedding vector.
const EmbedDim = 384

// Embedder maps text to fixed-width float32 vectors.
// The same text and model version always yield the same vector.
type Embedder interface {
	// EncodeOne embeds a single text.
	EncodeOne(ctx context.Context, text string) ([]float32, error)

	// EncodeMany embeds texts in order. The result is element-wise
	// identical to calling EncodeOne for each text.
	EncodeMany(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector width produced by the model.
	Dimensions() int
}
