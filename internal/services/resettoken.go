package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Reset tokens are signed values embedding the user's email and the
// updated_at stamp at issue time. A token authorizes exactly one password
// change: any later update to the record changes the stamp and invalidates
// every token issued before it.

const resetTokenTTL = 30 * time.Minute

var (
	ErrResetUserNotFound = errors.New("User with this email does not exist.")
	ErrResetTokenInvalid = errors.New("Invalid or expired reset link.")
	ErrResetTokenStale   = errors.New("Reset link is no longer valid (token outdated).")
)

type resetClaims struct {
	Email     string `json:"email"`
	UpdatedAt string `json:"updated_at"`
	jwt.RegisteredClaims
}

// IssueResetToken creates a reset token for the account, or
// ErrResetUserNotFound when the email is not registered.
func IssueResetToken(secret, email string) (string, error) {
	user, err := GetUserByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrResetUserNotFound
	}

	claims := resetClaims{
		Email:     user.Email,
		UpdatedAt: user.UpdatedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyResetToken validates signature and expiry, then checks the embedded
// updated_at stamp against the stored one. The stamps must match exactly;
// any intervening password or profile change makes the token stale.
func VerifyResetToken(secret, tokenString string) (string, error) {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrResetTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrResetTokenInvalid
	}

	user, err := GetUserByEmail(claims.Email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrResetUserNotFound
	}
	if user.UpdatedAt != claims.UpdatedAt {
		return "", ErrResetTokenStale
	}
	return user.Email, nil
}
