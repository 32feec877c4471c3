package domain

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is a single role-tagged transcript entry. It is never edited once
// appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func BotMessage(content string) Message {
	return Message{Role: RoleBot, Content: content}
}

// ChatMessage is the provider-facing message shape sent to completion APIs.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
