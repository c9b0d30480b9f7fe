package models

// User is a chat platform participant as the bot knows them.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}
