package models

import "time"

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"-"` // never serialized
	Priority     int    `json:"priority"` // default base priority for new tasks, 1..5

	// Telegram reminder link
	TelegramChatID int64 `json:"-"`
	NotifyTelegram bool  `json:"notify_telegram"`

	// refresh-token storage (opaque string, rotated on use)
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
