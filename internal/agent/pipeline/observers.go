package pipeline

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/sahil-voice-agent/server/pkg/logger"
)

// newToolCallbacks logs the web search tool lifecycle during agent runs.
func newToolCallbacks() einocb.Handler {
	handler := &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			logx.Debug().
				Str("tool", info.Name).
				Str("arguments", input.ArgumentsInJSON).
				Msg("tool call started")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			logx.Debug().
				Str("tool", info.Name).
				Int("response_len", len(output.Response)).
				Msg("tool call finished")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().
				Err(err).
				Str("tool", info.Name).
				Msg("tool call failed")
			return ctx
		},
	}

	return callbackHelper.NewHandlerHelper().
		Tool(handler).
		Handler()
}
