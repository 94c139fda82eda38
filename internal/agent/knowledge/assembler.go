package knowledge

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/retriever"

	"github.com/sahil-voice-agent/server/internal/agent/router"
	logx "github.com/sahil-voice-agent/server/pkg/logger"
)

// Assembler picks at most one knowledge source per query and turns its
// passages into a context block for the response prompt.
type Assembler struct {
	selfSource retriever.Retriever
	orgSource  retriever.Retriever
	topK       int
}

func NewAssembler(selfSource, orgSource retriever.Retriever, topK int) *Assembler {
	if topK <= 0 {
		topK = 2
	}
	return &Assembler{
		selfSource: selfSource,
		orgSource:  orgSource,
		topK:       topK,
	}
}

// Assemble returns the newline-joined passages for the query, or an
// empty string when no source applies. Precedence: about_self wins over
// about_org; exactly one source is queried per call. Retrieval failures
// degrade to an empty block so the response can still be generated.
func (a *Assembler) Assemble(ctx context.Context, query string, tags router.Tags) string {
	var source retriever.Retriever
	var name string
	switch {
	case tags.AboutSelf:
		source, name = a.selfSource, "self-profile"
	case tags.AboutOrg:
		source, name = a.orgSource, "org-profile"
	default:
		return ""
	}

	docs, err := source.Retrieve(ctx, query, retriever.WithTopK(a.topK))
	if err != nil {
		logx.Warn().Err(err).Str("source", name).Msg("retrieval failed, continuing without context")
		return ""
	}

	passages := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc == nil || doc.Content == "" {
			continue
		}
		passages = append(passages, doc.Content)
	}

	logx.Debug().Str("source", name).Int("passages", len(passages)).Msg("context assembled")
	return strings.Join(passages, "\n")
}
