package domain

import (
	"strings" // Provider name parsing
	"time"    // Timestamps
)

// Provider names a federated identity service
type Provider string

// Supported identity providers
const (
	ProviderGitHub    Provider = "github"
	ProviderGoogle    Provider = "google"
	ProviderFacebook  Provider = "facebook"
	ProviderTwitter   Provider = "twitter"
	ProviderInstagram Provider = "instagram"
)

// Providers lists every known provider in mount order
var Providers = []Provider{ProviderGitHub, ProviderGoogle, ProviderFacebook, ProviderTwitter, ProviderInstagram}

// ParseProvider resolves a provider name, case-insensitively
func ParseProvider(name string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Title is the capitalised provider name used in fallback display names
func (p Provider) Title() string {
	if p == "" {
		return ""
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// User Model
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`                                   // Primary key
	Name       string         `gorm:"not null" json:"name"`                                   // Display name from the provider
	Email      *string        `json:"email"`                                                  // Optional email
	Identities []UserIdentity `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Linked provider identities
	CreatedAt  time.Time      `json:"created_at"`                                             // Timestamp of creation
}

// ProviderIDs maps provider name to external id for the loaded identities
func (u User) ProviderIDs() map[Provider]string {
	ids := make(map[Provider]string, len(u.Identities))
	for _, identity := range u.Identities {
		ids[identity.Provider] = identity.ExternalID
	}
	return ids
}

// UserIdentity Model, one row per (provider, external id)
type UserIdentity struct {
	ID         uint      `gorm:"primaryKey"`                                                   // Primary key
	UserID     uint      `gorm:"index;not null"`                                               // Owning user
	Provider   Provider  `gorm:"type:varchar(32);uniqueIndex:idx_provider_external;not null"`  // Identity provider
	ExternalID string    `gorm:"type:varchar(191);uniqueIndex:idx_provider_external;not null"` // Provider-assigned id
	CreatedAt  time.Time // Timestamp of creation
}

// Profile is what a provider callback knows about the signed-in person
type Profile struct {
	Provider    Provider // Identity provider
	ExternalID  string   // Provider-assigned id
	DisplayName string   // Display name, may be empty
	Email       string   // Email, may be empty
}
