package memory

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/sahil-voice-agent/server/internal/agent/model"
)

// Manager exposes the bounded view of the conversation log the pipeline
// works with: only the last MaxHistory messages are ever read, while the
// repository keeps the full log.
type Manager struct {
	conversationRepo model.ConversationRepository
	maxHistory       int
}

func NewManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *Manager {
	return &Manager{
		conversationRepo: conversationRepo,
		maxHistory:       config.MaxHistory,
	}
}

// Recent returns the last MaxHistory messages in chronological order,
// or all of them when the history is shorter.
func (m *Manager) Recent(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := m.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return trimTail(history.Messages, m.maxHistory), nil
}

// CommitExchange records a completed exchange, user turn before
// assistant turn. The repository appends both or neither, so a failed
// generation never leaves a dangling user message.
func (m *Manager) CommitExchange(ctx context.Context, conversationID, query, reply string) error {
	return m.conversationRepo.AddMessages(ctx, conversationID,
		schema.UserMessage(query),
		schema.AssistantMessage(reply, nil),
	)
}

// Clear drops the whole conversation log.
func (m *Manager) Clear(ctx context.Context, conversationID string) error {
	return m.conversationRepo.ClearHistory(ctx, conversationID)
}

func trimTail(messages []*schema.Message, max int) []*schema.Message {
	if max <= 0 || len(messages) <= max {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-max:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
