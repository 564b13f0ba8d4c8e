package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkheal/talkheal-backend/internal/database"
	"github.com/talkheal/talkheal-backend/internal/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.Connect(":memory:"))
	t.Cleanup(func() { database.Disconnect() })
}

func TestRegisterAndAuthenticate(t *testing.T) {
	setupTestDB(t)

	ok, msg := RegisterUser("Ava", "ava@example.com", "Str0ngPass", models.ProviderEmail, "", "", false)
	require.True(t, ok, msg)
	assert.Equal(t, "User registered successfully", msg)

	ok, user := AuthenticateUser("ava@example.com", "Str0ngPass")
	require.True(t, ok)
	require.NotNil(t, user)
	assert.Equal(t, "Ava", user.Name)
	assert.Equal(t, models.ProviderEmail, user.Provider)

	// Email lookup is case-insensitive.
	ok, _ = AuthenticateUser("AVA@example.com", "Str0ngPass")
	assert.True(t, ok)

	ok, user = AuthenticateUser("ava@example.com", "wrong")
	assert.False(t, ok)
	assert.Nil(t, user)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupTestDB(t)

	ok, _ := RegisterUser("Ava", "ava@example.com", "Str0ngPass", models.ProviderEmail, "", "", false)
	require.True(t, ok)

	ok, msg := RegisterUser("Other", "ava@example.com", "An0therPass", models.ProviderEmail, "", "", false)
	assert.False(t, ok)
	assert.Equal(t, "Email already registered", msg)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	setupTestDB(t)

	ok, user := AuthenticateUser("nobody@example.com", "whatever")
	assert.False(t, ok)
	assert.Nil(t, user)
}

func TestOAuthUserCannotPasswordAuthenticate(t *testing.T) {
	setupTestDB(t)

	ok, _ := RegisterUser("Sam", "sam@example.com", "", models.ProviderGoogle, "g-123", "", true)
	require.True(t, ok)

	ok, user := AuthenticateUser("sam@example.com", "")
	assert.False(t, ok)
	assert.Nil(t, user)

	stored, err := GetUserByEmail("sam@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.ProviderGoogle, stored.Provider)
	assert.Equal(t, "g-123", stored.ProviderID)
	assert.True(t, stored.Verified)
}

func TestResetPassword(t *testing.T) {
	setupTestDB(t)

	ok, _ := RegisterUser("Ava", "ava@example.com", "OldPass123", models.ProviderEmail, "", "", false)
	require.True(t, ok)

	before, err := GetUserByEmail("ava@example.com")
	require.NoError(t, err)

	ok, msg := ResetPassword("ava@example.com", "NewPass456")
	require.True(t, ok)
	assert.Equal(t, "Password updated successfully.", msg)

	ok, _ = AuthenticateUser("ava@example.com", "OldPass123")
	assert.False(t, ok)
	ok, _ = AuthenticateUser("ava@example.com", "NewPass456")
	assert.True(t, ok)

	after, err := GetUserByEmail("ava@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, before.UpdatedAt, after.UpdatedAt)
}

func TestResetPasswordUnknownEmail(t *testing.T) {
	setupTestDB(t)

	ok, msg := ResetPassword("nobody@example.com", "NewPass456")
	assert.False(t, ok)
	assert.Equal(t, "User with this email does not exist.", msg)
}

func TestUpdateProfileBumpsStamp(t *testing.T) {
	setupTestDB(t)

	ok, _ := RegisterUser("Ava", "ava@example.com", "Str0ngPass", models.ProviderEmail, "", "", false)
	require.True(t, ok)

	before, err := GetUserByEmail("ava@example.com")
	require.NoError(t, err)

	ok, _ = UpdateProfile("ava@example.com", "Ava M.", "https://img.example/avatar.png")
	require.True(t, ok)

	after, err := GetUserByEmail("ava@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ava M.", after.Name)
	assert.Equal(t, "https://img.example/avatar.png", after.ProfilePicture)
	assert.NotEqual(t, before.UpdatedAt, after.UpdatedAt)
}
