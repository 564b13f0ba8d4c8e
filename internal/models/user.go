package models

// Provider values for User.Provider. "email" marks local credentials; the
// rest are OAuth identity sources.
const (
	ProviderEmail     = "email"
	ProviderGoogle    = "google"
	ProviderGitHub    = "github"
	ProviderMicrosoft = "microsoft"
)

type User struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	PasswordHash   string `db:"password_hash" json:"-"` // empty for OAuth users
	UpdatedAt      string `db:"updated_at" json:"updated_at"`
	Provider       string `db:"provider" json:"provider"`
	ProviderID     string `db:"provider_id" json:"provider_id,omitempty"`
	ProfilePicture string `db:"profile_picture" json:"profile_picture,omitempty"`
	Verified       bool   `db:"verified" json:"verified"`
}

// NormalizedIdentity is the provider-independent shape OAuth payloads are
// mapped into before a user record is created or matched.
type NormalizedIdentity struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Picture    string `json:"picture"`
	Verified   bool   `json:"verified"`
}
