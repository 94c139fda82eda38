package pipeline

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/sahil-voice-agent/server/internal/agent/model"
	logx "github.com/sahil-voice-agent/server/pkg/logger"
)

// Generators holds the two language model capabilities the pipeline can
// delegate to: a bare chat model and a react agent carrying the web
// search tool. Both are built once at startup.
type Generators struct {
	Direct    model.Generator
	WebSearch model.Generator
}

// NewGenaiClient creates the shared Gemini API client used by the chat
// models and the embedder.
func NewGenaiClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// NewGenerators builds both response paths from the same model config.
// The web search path gets its own chat model instance so tool binding
// never leaks into direct generation.
func NewGenerators(ctx context.Context, client *genai.Client, cfg model.ResponseModelConfig, searchTool tool.BaseTool) (*Generators, error) {
	directModel, err := newChatModel(ctx, client, cfg)
	if err != nil {
		return nil, err
	}

	agentModel, err := newChatModel(ctx, client, cfg)
	if err != nil {
		return nil, err
	}

	maxStep := cfg.AgentMaxSteps
	if maxStep <= 0 {
		maxStep = 6
	}
	searchAgent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: agentModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: []tool.BaseTool{searchTool},
		},
		MaxStep: maxStep,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error building web search agent")
		return nil, fmt.Errorf("error building web search agent: %w", err)
	}

	return &Generators{
		Direct:    &chatGenerator{chatModel: directModel},
		WebSearch: &agentGenerator{agent: searchAgent},
	}, nil
}

func newChatModel(ctx context.Context, client *genai.Client, cfg model.ResponseModelConfig) (*gemini.ChatModel, error) {
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Str("model", cfg.Model).Msg("Error creating response model")
		return nil, fmt.Errorf("error creating response model: %w", err)
	}
	return chatModel, nil
}

// chatGenerator answers directly from the chat model, no tools granted.
type chatGenerator struct {
	chatModel *gemini.ChatModel
}

func (g *chatGenerator) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	return g.chatModel.Generate(ctx, messages)
}

// agentGenerator delegates to the react agent, which may run several
// web search rounds before producing the final assistant message.
type agentGenerator struct {
	agent *react.Agent
}

func (g *agentGenerator) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	return g.agent.Generate(ctx, messages,
		agent.WithComposeOptions(compose.WithCallbacks(newToolCallbacks())),
	)
}

var (
	_ model.Generator = (*chatGenerator)(nil)
	_ model.Generator = (*agentGenerator)(nil)
)
