package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type passwordHasher struct {
	cost int
}

func (h passwordHasher) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// matches reports whether password matches hash. An empty hash never matches.
func (h passwordHasher) matches(hash, password string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("comparing password: %w", err)
	}
	return true, nil
}

var defaultHasher = passwordHasher{cost: bcrypt.DefaultCost}

// HashPassword hashes password with the default bcrypt cost.
func HashPassword(password string) (string, error) {
	return defaultHasher.hash(password)
}
