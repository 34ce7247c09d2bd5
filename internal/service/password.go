package service

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	minPasswordLength = 8
	passwordSymbols   = "@$!%*?&#"
)

// validatePassword requires at least eight characters with an uppercase letter,
// a lowercase letter, a digit and one of @$!%*?&#.
func validatePassword(password string) error {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	if len([]rune(password)) < minPasswordLength || !upper || !lower || !digit || !symbol {
		return fmt.Errorf("%w: must be at least %d characters and include an uppercase letter, a lowercase letter, a number and one of %s",
			ErrWeakPassword, minPasswordLength, passwordSymbols)
	}
	return nil
}
