package user

import (
	"fmt"
	"time"
)

// Provider names the authority that asserted a user's identity.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderGitHub   Provider = "github"
	ProviderFacebook Provider = "facebook"
	ProviderLocal    Provider = "local"
)

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(name); p {
	case ProviderGoogle, ProviderGitHub, ProviderFacebook, ProviderLocal:
		return p, nil
	default:
		return "", fmt.Errorf("user: unknown provider %q", name)
	}
}

// User is the single persisted account record. Provider and ProviderSubjectID
// are immutable once written; (Provider, ProviderSubjectID) is unique.
type User struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Provider          Provider  `gorm:"size:16;not null;uniqueIndex:users_provider_subject_unique" json:"provider"`
	ProviderSubjectID *string   `gorm:"size:255;uniqueIndex:users_provider_subject_unique" json:"providerSubjectId,omitempty"`
	Name              string    `gorm:"size:255" json:"name"`
	Email             *string   `gorm:"size:320;index" json:"email,omitempty"`
	PasswordHash      *string   `gorm:"size:255" json:"-"`
	IsVerified        bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// HasPassword reports whether the user carries a local password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
