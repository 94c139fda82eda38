package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Generator is the language model capability the pipeline delegates to.
// Implementations may run multiple internal rounds of tool invocation
// before returning the final assistant message.
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error)
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}
