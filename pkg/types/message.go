package types

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"    // RoleSystem carries instructions for the model.
	RoleUser      Role = "user"      // RoleUser carries content authored by the user.
	RoleAssistant Role = "assistant" // RoleAssistant carries content produced by the model.
)

// Message is a single entry in a chat conversation.
type Message struct {
	// Role identifies who authored the message.
	Role Role

	// Content is the plain-text body of the message.
	Content string
}

// NewMessage creates a message with the given role and content.
func NewMessage(role Role, content string) *Message {
	return &Message{
		Role:    role,
		Content: content,
	}
}
