package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/sahil-voice-agent/server/internal/agent/model"
)

//go:embed template/persona_prompt.txt
var personaSystemPrompt string

// RenderPersonaSystem renders the persona system prompt via the Eino
// prompt component (Go template) so prompt callbacks fire.
func RenderPersonaSystem(ctx context.Context, persona model.PersonaConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(personaSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"SubjectName": persona.SubjectName,
		"OrgName":     persona.OrgName,
		"FounderName": persona.FounderName,
	})
	if err != nil {
		return "", fmt.Errorf("persona prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("persona prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// ContextMessage wraps retrieved passages as the auxiliary system
// message injected before the conversation history.
func ContextMessage(contextBlock string) *schema.Message {
	return schema.SystemMessage(fmt.Sprintf("Relevant context:\n%s", contextBlock))
}
