package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	logx "github.com/sahil-voice-agent/server/pkg/logger"
)

// ProfileIndex is a read-only knowledge source over a static profile
// document: passages are embedded once at build time and queries are
// answered by in-process cosine scoring. Safe for concurrent reads.
type ProfileIndex struct {
	name     string
	embedder embedding.Embedder
	passages []string
	vectors  [][]float64
	topK     int
}

// BuildProfileIndex embeds all passages through the provided embedder.
func BuildProfileIndex(ctx context.Context, name string, passages []string, embedder embedding.Embedder, topK int) (*ProfileIndex, error) {
	if len(passages) == 0 {
		return nil, fmt.Errorf("profile index %q: no passages to index", name)
	}
	if topK <= 0 {
		topK = 2
	}

	vectors, err := embedder.EmbedStrings(ctx, passages)
	if err != nil {
		return nil, fmt.Errorf("profile index %q: embed passages: %w", name, err)
	}
	if len(vectors) != len(passages) {
		return nil, fmt.Errorf("profile index %q: vector count mismatch", name)
	}

	logx.Info().Str("index", name).Int("passages", len(passages)).Msg("profile index built")

	return &ProfileIndex{
		name:     name,
		embedder: embedder,
		passages: passages,
		vectors:  vectors,
		topK:     topK,
	}, nil
}

// Retrieve returns up to top-k passages ordered by descending cosine
// similarity to the query.
func (idx *ProfileIndex) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &idx.topK}, opts...)

	queryVectors, err := idx.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVectors) != 1 {
		return nil, fmt.Errorf("embed query: expected one vector, got %d", len(queryVectors))
	}
	queryVec := queryVectors[0]

	type scored struct {
		position int
		score    float64
	}
	ranked := make([]scored, 0, len(idx.vectors))
	for i, v := range idx.vectors {
		ranked = append(ranked, scored{position: i, score: cosine(queryVec, v)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	k := *options.TopK
	if k > len(ranked) {
		k = len(ranked)
	}

	docs := make([]*schema.Document, 0, k)
	for _, r := range ranked[:k] {
		doc := &schema.Document{
			ID:      fmt.Sprintf("%s-%d", idx.name, r.position),
			Content: idx.passages[r.position],
		}
		docs = append(docs, doc.WithScore(r.score))
	}
	return docs, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ retriever.Retriever = (*ProfileIndex)(nil)
