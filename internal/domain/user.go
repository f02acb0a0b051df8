package domain

import "time"

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string // argon2id PHC encoded
	Role         Role
	Onboarded    bool // flipped when an invite is accepted
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
