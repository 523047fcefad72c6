// Package auth provides password hashing and server-side session
// management for the web frontend. The analytics core never touches this
// package: handlers resolve the owner here and pass it down explicitly.
package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyUsername     = errors.New("empty username")
	ErrPasswordTooShort  = errors.New("password too short (min 8 characters)")
	ErrPasswordTooLong   = errors.New("password too long (max 72 bytes)")
	ErrWrongCredentials  = errors.New("wrong username or password")
	ErrUsernameTooLong   = errors.New("username too long (max 64 characters)")
	ErrInvalidCharacters = errors.New("username contains invalid characters")
)

// ValidateCredentials checks registration input before any hashing work.
func ValidateCredentials(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if len(username) > 64 {
		return ErrUsernameTooLong
	}
	for _, r := range username {
		if r < 33 || r > 126 {
			return ErrInvalidCharacters
		}
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	// bcrypt silently truncates beyond 72 bytes; reject instead.
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword produces a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash against a login attempt. Any
// mismatch is reported as ErrWrongCredentials so callers cannot leak
// which part failed.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrWrongCredentials
	}
	return nil
}
