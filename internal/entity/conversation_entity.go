package entity

type ConversationTurn struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}
