package models

import "time"

// VaultItem is the persisted form of a credential record. Title, Username,
// Password, URL and Notes hold ciphertext; URL and Notes are the empty string
// when the caller did not supply them.
type VaultItem struct {
	ID        string
	OwnerID   string
	Title     string
	Username  string
	Password  string
	URL       string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlainItem is the caller-facing, decrypted form of a VaultItem.
type PlainItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	URL       string    `json:"url"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemInput carries the editable fields of a create or whole-record update.
type ItemInput struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
}
