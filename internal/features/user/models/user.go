package models

import "time"

// User is the persisted profile of a storefront customer. The id comes from
// Telegram and is the only correlation key between a session and stored data.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	PhotoURL     string    `json:"photo_url"`
	LanguageCode string    `json:"language_code"`
	IsBanned     bool      `json:"is_banned"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login"`
}

// SyncResult is the response of an identity sync. IsNew means the record was
// created within the last minute, so the client can show onboarding.
type SyncResult struct {
	IsBanned bool `json:"isBanned"`
	IsNew    bool `json:"isNew"`
}
