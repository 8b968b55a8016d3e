package models

import "time"

// User represents a registered account in the system.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Mobile        string     `json:"mobile"`
	Email         string     `json:"email"`
	AvatarID      string     `json:"avatarId"`
	PasswordHash  string     `json:"-"` // Never expose this to the client
	EmailVerified bool       `json:"emailVerified"`
	VerifyToken   *string    `json:"-"` // Single-use verification/reset/profile-edit OTP
	TokenIssuedAt *time.Time `json:"-"`
	SessionToken  *string    `json:"-"` // Last issued JWT
	CreatedAt     time.Time  `json:"createdAt"`
}
