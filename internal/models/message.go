package models

// InboundMessage is one chat message delivered by a platform bridge,
// either over the webhook or the bridge websocket.
type InboundMessage struct {
	ChatID int64  `json:"chat_id"`
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`

	// ReplyToUserID carries the author of the replied-to message for
	// commands that target a user by reply (promote, rights, tickets).
	ReplyToUserID *int64 `json:"reply_to_user_id,omitempty"`

	// SenderName lets the bridge piggyback a display name refresh.
	SenderName string `json:"sender_name,omitempty"`
}

// OutboundMessage is a reply the engine wants delivered to a chat.
// Delivery is fire-and-forget from the engine's perspective.
type OutboundMessage struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}
