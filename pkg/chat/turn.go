package chat

// Role identifies which side of the conversation produced a turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn represents a single role-tagged message in a conversation transcript.
// Turns are immutable once appended to a session
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTurn creates a new turn
func NewTurn(role Role, content string) Turn {
	return Turn{
		Role:    role,
		Content: content,
	}
}
