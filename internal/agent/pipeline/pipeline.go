package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/sahil-voice-agent/server/internal/agent/knowledge"
	"github.com/sahil-voice-agent/server/internal/agent/memory"
	"github.com/sahil-voice-agent/server/internal/agent/model"
	"github.com/sahil-voice-agent/server/internal/agent/prompts"
	"github.com/sahil-voice-agent/server/internal/agent/router"
	errx "github.com/sahil-voice-agent/server/internal/core/error"
	logx "github.com/sahil-voice-agent/server/pkg/logger"
)

// Config holds everything needed to compose the response pipeline.
type Config struct {
	Classifier *router.Classifier
	Assembler  *knowledge.Assembler
	Memory     *memory.Manager
	Direct     model.Generator
	WebSearch  model.Generator
	Persona    model.PersonaConfig
	ModelName  string
}

// Pipeline orchestrates one user turn: classify, assemble context,
// build the message sequence, delegate to the language model and commit
// the exchange. The mutex serialises turns so concurrent callers cannot
// interleave conversation writes.
type Pipeline struct {
	mu         sync.Mutex
	classifier *router.Classifier
	assembler  *knowledge.Assembler
	memory     *memory.Manager
	direct     model.Generator
	webSearch  model.Generator
	persona    model.PersonaConfig
	modelName  string
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is nil")
	}
	if cfg.Assembler == nil {
		return nil, fmt.Errorf("assembler is nil")
	}
	if cfg.Memory == nil {
		return nil, fmt.Errorf("memory manager is nil")
	}
	if cfg.Direct == nil || cfg.WebSearch == nil {
		return nil, fmt.Errorf("generators are not properly initialized")
	}

	return &Pipeline{
		classifier: cfg.Classifier,
		assembler:  cfg.Assembler,
		memory:     cfg.Memory,
		direct:     cfg.Direct,
		webSearch:  cfg.WebSearch,
		persona:    cfg.Persona,
		modelName:  cfg.ModelName,
	}, nil
}

// Respond processes one user query and returns the reply text.
// Memory is updated exactly once per successful call, user turn before
// assistant turn; a failed generation leaves it untouched so the caller
// can retry the same query without duplicated history.
func (p *Pipeline) Respond(ctx context.Context, in model.QueryInput) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	query := strings.TrimSpace(in.Query)
	if query == "" {
		return "", fmt.Errorf("query is empty")
	}

	tags := p.classifier.Classify(query)
	logx.Debug().
		Str("conversation_id", in.ConversationID).
		Bool("about_self", tags.AboutSelf).
		Bool("about_org", tags.AboutOrg).
		Bool("needs_web", tags.NeedsWeb).
		Msg("query classified")

	contextBlock := p.assembler.Assemble(ctx, query, tags)

	history, err := p.memory.Recent(ctx, in.ConversationID)
	if err != nil {
		return "", fmt.Errorf("load recent history: %w", err)
	}

	systemPrompt, err := prompts.RenderPersonaSystem(ctx, p.persona)
	if err != nil {
		return "", err
	}

	messages := make([]*schema.Message, 0, len(history)+3)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	if contextBlock != "" {
		messages = append(messages, prompts.ContextMessage(contextBlock))
	}
	messages = append(messages, history...)
	messages = append(messages, schema.UserMessage(query))

	generator := p.direct
	if tags.NeedsWeb {
		generator = p.webSearch
	}

	out, err := generator.Generate(ctx, messages)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("reply generation failed")
		return "", errx.WrapGeneration(err)
	}
	if out == nil {
		return "", errx.WrapGeneration(fmt.Errorf("generator returned nil message"))
	}
	reply := strings.TrimSpace(out.Content)

	p.logUsage(in.ConversationID, out)

	if err := p.memory.CommitExchange(ctx, in.ConversationID, query, reply); err != nil {
		return "", fmt.Errorf("commit exchange: %w", err)
	}

	return reply, nil
}

func (p *Pipeline) logUsage(conversationID string, out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	pricing := model.ResolvePricing(p.modelName)
	inC, outC, totalC := model.ComputeCost(usage, pricing)
	logx.Debug().
		Str("conversation_id", conversationID).
		Str("model", p.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}
