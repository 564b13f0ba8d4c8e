package services

import (
	"fmt"

	"github.com/talkheal/talkheal-backend/internal/models"
)

// NormalizeIdentity maps a provider's raw userinfo payload into the
// provider-independent identity shape. Unknown providers yield an identity
// with only the provider name set.
func NormalizeIdentity(provider string, raw map[string]interface{}) models.NormalizedIdentity {
	switch provider {
	case models.ProviderGoogle:
		return models.NormalizedIdentity{
			Provider:   provider,
			ProviderID: rawString(raw, "id"),
			Email:      rawString(raw, "email"),
			Name:       rawString(raw, "name"),
			Picture:    rawString(raw, "picture"),
			Verified:   rawBool(raw, "verified_email"),
		}
	case models.ProviderGitHub:
		name := rawString(raw, "name")
		if name == "" {
			name = rawString(raw, "login")
		}
		return models.NormalizedIdentity{
			Provider:   provider,
			ProviderID: rawString(raw, "id"),
			Email:      rawString(raw, "email"),
			Name:       name,
			Picture:    rawString(raw, "avatar_url"),
			Verified:   true,
		}
	case models.ProviderMicrosoft:
		email := rawString(raw, "mail")
		if email == "" {
			email = rawString(raw, "userPrincipalName")
		}
		return models.NormalizedIdentity{
			Provider:   provider,
			ProviderID: rawString(raw, "id"),
			Email:      email,
			Name:       rawString(raw, "displayName"),
			Verified:   true,
		}
	}
	return models.NormalizedIdentity{Provider: provider}
}

// rawString reads a payload field as a string. Numeric ids (GitHub sends the
// id as a JSON number) are formatted without an exponent.
func rawString(raw map[string]interface{}, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

func rawBool(raw map[string]interface{}, key string) bool {
	b, _ := raw[key].(bool)
	return b
}
