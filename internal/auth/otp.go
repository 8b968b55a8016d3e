package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateOTP returns a random 8-character hex code used for email
// verification, password reset and profile-edit confirmation.
func GenerateOTP() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
