package models

import "testing"

func TestBuildPrompt_SingleSystemTurn(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
		{Role: RoleUser, Content: "again"},
	}

	// The system turn must sit at index 0 exactly once, however many
	// times the prompt is rebuilt and however long the history grows.
	for i := 0; i < 3; i++ {
		prompt := BuildPrompt("persona", history)

		if len(prompt) != len(history)+1 {
			t.Fatalf("expected %d turns, got %d", len(history)+1, len(prompt))
		}
		if prompt[0].Role != RoleSystem || prompt[0].Content != "persona" {
			t.Fatalf("expected system turn at index 0, got %+v", prompt[0])
		}
		for j, turn := range prompt[1:] {
			if turn.Role == RoleSystem {
				t.Errorf("duplicate system turn at index %d", j+1)
			}
		}

		history = append(history, Turn{Role: RoleUser, Content: "more"})
	}
}

func TestBuildPrompt_EmptyHistory(t *testing.T) {
	prompt := BuildPrompt("persona", nil)

	if len(prompt) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(prompt))
	}
	if prompt[0].Role != RoleSystem {
		t.Errorf("expected system turn, got %q", prompt[0].Role)
	}
}
