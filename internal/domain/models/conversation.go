package models

import "time"

// Turn roles. The persisted history contains only user and assistant turns;
// the system role exists solely in prompts built at call time.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a user's conversation history.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UserTurn creates a user turn stamped with the current time.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content, CreatedAt: time.Now()}
}

// AssistantTurn creates an assistant turn stamped with the current time.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content, CreatedAt: time.Now()}
}

// BuildPrompt assembles the message sequence sent to the completion provider:
// exactly one system turn carrying the persona instruction, followed by the
// chronological history. The system turn is injected here and never stored,
// so it cannot be duplicated as the conversation grows.
func BuildPrompt(persona string, history []Turn) []Turn {
	prompt := make([]Turn, 0, len(history)+1)
	prompt = append(prompt, Turn{Role: RoleSystem, Content: persona})
	prompt = append(prompt, history...)
	return prompt
}
