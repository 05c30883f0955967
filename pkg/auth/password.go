package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes; longer passwords are refused rather
// than silently truncated.
const maxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("auth: password longer than 72 bytes")

// PasswordCost is the bcrypt work factor. Tests lower it to bcrypt.MinCost.
var PasswordCost = bcrypt.DefaultCost

// HashPassword bcrypt-hashes plain.
func HashPassword(plain string) (string, error) {
	if len(plain) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches hash.
func CheckPassword(hash, plain string) bool {
	if len(plain) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
