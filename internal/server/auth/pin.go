package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPin returns the bcrypt hash stored for pin.
func HashPin(pin string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPin reports whether pin matches hash. Errors other than a mismatch
// (a corrupt hash, say) are returned.
func CheckPin(hash, pin string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
