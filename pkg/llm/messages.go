package llm

//----------------------------------------------------------------
// Message - 通用訊息結構
//----------------------------------------------------------------

// Role constants for conversation messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one conversation message.
type Message struct {
	Role    string `json:"role"`    // "system", "user" or "assistant"
	Content string `json:"content"` // Plain text content
}

// NewSystemMessage 建立系統訊息
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// NewUserMessage 建立使用者訊息
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage 建立助理訊息
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// FilterHistory returns the prior turns that are safe to replay into a new
// conversation context. Messages with unrecognized roles are dropped, not
// errored; system messages are excluded because the context builder always
// supplies its own single system message.
func FilterHistory(history []Message) []Message {
	filtered := make([]Message, 0, len(history))
	for _, msg := range history {
		if msg.Role == RoleUser || msg.Role == RoleAssistant {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}
