package db_models

import "time"

// Account is stored at users/{id}. PasswordHash is empty for profiles
// created from an external identity on first access.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Preferences  []string  `json:"preferences"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EmailIndex maps a normalised email to its account id at user_emails/{email}.
type EmailIndex struct {
	AccountID string `json:"accountId"`
}
