package knowledge

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/stretchr/testify/require"
)

// axisEmbedder maps known strings to fixed vectors so similarity
// ordering is deterministic.
type axisEmbedder struct {
	vectors map[string][]float64
}

func (e *axisEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		v, ok := e.vectors[t]
		if !ok {
			v = []float64{0, 0, 1}
		}
		out = append(out, v)
	}
	return out, nil
}

func newAxisEmbedder() *axisEmbedder {
	return &axisEmbedder{vectors: map[string][]float64{
		"education history": {1, 0, 0},
		"work experience":   {0, 1, 0},
		"hobbies":           {0.5, 0.5, 0},
		"education":         {0.9, 0.1, 0},
	}}
}

func TestBuildProfileIndexRejectsEmpty(t *testing.T) {
	_, err := BuildProfileIndex(context.Background(), "self", nil, newAxisEmbedder(), 2)
	require.Error(t, err)
}

func TestRetrieveRanksByCosineSimilarity(t *testing.T) {
	ctx := context.Background()
	passages := []string{"education history", "work experience", "hobbies"}

	idx, err := BuildProfileIndex(ctx, "self", passages, newAxisEmbedder(), 2)
	require.NoError(t, err)

	docs, err := idx.Retrieve(ctx, "education")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "education history", docs[0].Content)
	require.Equal(t, "hobbies", docs[1].Content)
	require.Greater(t, docs[0].Score(), docs[1].Score())
}

func TestRetrieveHonorsTopKOption(t *testing.T) {
	ctx := context.Background()
	passages := []string{"education history", "work experience", "hobbies"}

	idx, err := BuildProfileIndex(ctx, "self", passages, newAxisEmbedder(), 2)
	require.NoError(t, err)

	docs, err := idx.Retrieve(ctx, "education", retriever.WithTopK(1))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	docs, err = idx.Retrieve(ctx, "education", retriever.WithTopK(10))
	require.NoError(t, err)
	require.Len(t, docs, 3)
}

func TestCosine(t *testing.T) {
	require.InDelta(t, 1.0, cosine([]float64{1, 0}, []float64{2, 0}), 1e-9)
	require.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	require.Zero(t, cosine([]float64{1, 0}, []float64{1}))
	require.Zero(t, cosine([]float64{0, 0}, []float64{1, 0}))
}
