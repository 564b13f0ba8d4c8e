package services

import (
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/talkheal/talkheal-backend/internal/database"
	"github.com/talkheal/talkheal-backend/internal/models"
	"github.com/talkheal/talkheal-backend/pkg/utils"
)

const selectUserColumns = `SELECT id, name, email, COALESCE(password_hash, '') AS password_hash,
	updated_at, COALESCE(provider, 'email') AS provider, COALESCE(provider_id, '') AS provider_id,
	COALESCE(profile_picture, '') AS profile_picture, verified FROM users`

// RegisterUser creates a user record. The password is hashed only when
// non-empty; OAuth users store no password. Returns (ok, message) with
// "Email already registered" on a duplicate.
func RegisterUser(name, email, password, provider, providerID, picture string, verified bool) (bool, string) {
	email = strings.TrimSpace(strings.ToLower(email))

	var hashed sql.NullString
	if password != "" {
		h, err := utils.HashPassword(password)
		if err != nil {
			log.Printf("⚠️  Could not hash password: %v", err)
			return false, "Registration failed"
		}
		hashed = sql.NullString{String: h, Valid: true}
	}

	if existing, err := GetUserByEmail(email); err != nil {
		return false, "Registration failed"
	} else if existing != nil {
		return false, "Email already registered"
	}

	query := database.DB.Rebind(`INSERT INTO users
		(name, email, password_hash, updated_at, provider, provider_id, profile_picture, verified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := database.DB.Exec(query, name, email, hashed, nowStamp(), provider, providerID, picture, verified)
	if err != nil {
		if isUniqueViolation(err) {
			return false, "Email already registered"
		}
		log.Printf("⚠️  Could not create user: %v", err)
		return false, "Registration failed"
	}
	return true, "User registered successfully"
}

// AuthenticateUser checks a password login. A missing user and a wrong
// password produce the same result; the caller never learns which failed.
// OAuth-only users (no stored hash) always fail password authentication.
func AuthenticateUser(email, password string) (bool, *models.User) {
	user, err := GetUserByEmail(email)
	if err != nil || user == nil {
		return false, nil
	}
	if user.PasswordHash == "" {
		return false, nil
	}
	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return false, nil
	}
	return true, user
}

// GetUserByEmail returns the user record or nil when absent.
func GetUserByEmail(email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var user models.User
	query := database.DB.Rebind(selectUserColumns + ` WHERE email = ?`)
	err := database.DB.Get(&user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Printf("⚠️  Could not look up user: %v", err)
		return nil, err
	}
	return &user, nil
}

// ResetPassword rehashes the user's password and bumps the updated_at stamp,
// which invalidates every outstanding reset token for the account.
func ResetPassword(email, newPassword string) (bool, string) {
	user, err := GetUserByEmail(email)
	if err != nil {
		return false, "Database error"
	}
	if user == nil {
		return false, "User with this email does not exist."
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		log.Printf("⚠️  Could not hash password: %v", err)
		return false, "Password update failed"
	}

	query := database.DB.Rebind(`UPDATE users SET password_hash = ?, updated_at = ? WHERE email = ?`)
	if _, err := database.DB.Exec(query, hashed, nowStamp(), user.Email); err != nil {
		log.Printf("⚠️  Could not update password: %v", err)
		return false, "Password update failed"
	}
	return true, "Password updated successfully."
}

// UpdateProfile changes the display name and/or profile picture. Any profile
// update bumps updated_at, so it also invalidates outstanding reset tokens.
func UpdateProfile(email, name, picture string) (bool, string) {
	user, err := GetUserByEmail(email)
	if err != nil {
		return false, "Database error"
	}
	if user == nil {
		return false, "User with this email does not exist."
	}

	if name == "" {
		name = user.Name
	}
	if picture == "" {
		picture = user.ProfilePicture
	}

	query := database.DB.Rebind(`UPDATE users SET name = ?, profile_picture = ?, updated_at = ? WHERE email = ?`)
	if _, err := database.DB.Exec(query, name, picture, nowStamp(), user.Email); err != nil {
		log.Printf("⚠️  Could not update profile: %v", err)
		return false, "Profile update failed"
	}
	return true, "Profile updated successfully."
}

// nowStamp produces the updated_at value. Nanosecond precision so every
// update yields a distinct stamp for reset-token comparison.
func nowStamp() string {
	return time.Now().Format(time.RFC3339Nano)
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
