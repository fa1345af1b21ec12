package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Admin holds the single moderator credential loaded from configuration.
type Admin struct {
	Username     string
	PasswordHash string
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Check verifies a login attempt. An unconfigured admin never matches.
func (a Admin) Check(username, password string) bool {
	if a.Username == "" || a.PasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(a.Username), []byte(username)) == 1
	passOK := ComparePassword(a.PasswordHash, password)
	return userOK && passOK
}
