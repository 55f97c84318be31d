package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost for passwords and stored refresh tokens.
const BcryptCost = 10

// HashPassword hashes a plaintext password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// HashToken hashes a refresh token before persisting it. bcrypt rejects
// inputs over 72 bytes and a signed JWT exceeds that, so the token is
// reduced with SHA-256 first.
func HashToken(token string) (string, error) {
	return HashPassword(digestToken(token))
}

// CheckToken compares a presented refresh token against the stored hash.
func CheckToken(hashedToken, token string) bool {
	return CheckPassword(hashedToken, digestToken(token))
}

func digestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
