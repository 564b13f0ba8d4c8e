package utils

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail checks basic address shape. It does not verify deliverability.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address")
	}
	if !strings.Contains(strings.SplitN(email, "@", 2)[1], ".") {
		return errors.New("invalid email address")
	}
	return nil
}
