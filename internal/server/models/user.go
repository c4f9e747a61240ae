// Package models defines the plain document structures persisted by the
// storage layer. Timestamps are ISO-8601 strings generated at the call site.
package models

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    string
}

// Settings is the per-user settings sub-document created alongside a new
// account.
type Settings struct {
	Currency string `json:"currency"`
	Theme    string `json:"theme"`
}

// DefaultSettings returns the settings written on first registration.
func DefaultSettings() *Settings {
	return &Settings{Currency: "USD", Theme: "light"}
}
