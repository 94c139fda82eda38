package knowledge

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"google.golang.org/genai"

	logx "github.com/sahil-voice-agent/server/pkg/logger"
)

// GeminiEmbedder adapts the genai embedding API to the eino Embedder
// component interface.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbedder(client *genai.Client, model string) *GeminiEmbedder {
	return &GeminiEmbedder{client: client, model: model}
}

func (e *GeminiEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	options := embedding.GetCommonOptions(&embedding.Options{Model: &e.model}, opts...)

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	resp, err := e.client.Models.EmbedContent(ctx, *options.Model, contents, nil)
	if err != nil {
		logx.Error().Err(err).Str("model", *options.Model).Msg("embedding request failed")
		return nil, fmt.Errorf("embed contents: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float64, 0, len(resp.Embeddings))
	for _, emb := range resp.Embeddings {
		v := make([]float64, len(emb.Values))
		for i, f := range emb.Values {
			v[i] = float64(f)
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

var _ embedding.Embedder = (*GeminiEmbedder)(nil)
