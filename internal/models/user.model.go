package models

// Role defines a user's access level.
type Role string

const (
	// RoleAdmin is held by the first provisioned user; admins can delete any
	// recommendation and curate staff picks.
	RoleAdmin Role = "admin"

	// RoleUser is every subsequent user; they manage only their own records.
	RoleUser Role = "user"
)

// AnonymousName is the display name fallback when the identity provider
// yields neither a name nor an email.
const AnonymousName = "Anonymous"

type User struct {
	BaseUUIDModel
	// Subject is the verified identity subject from the identity provider.
	// It is the foreign key recommendations reference and never changes.
	Subject string `gorm:"column:user_id;type:text;uniqueIndex;not null" json:"userId"`
	Name    string `gorm:"type:text"                                     json:"name"`
	Email   string `gorm:"type:text"                                     json:"email"`
	Role    Role   `gorm:"type:text;default:'user'"                      json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewUserFromIdentity builds an unsaved User from verified identity claims,
// applying the name fallback chain: name, then email, then "Anonymous".
func NewUserFromIdentity(identity Identity, role Role) *User {
	name := identity.Name
	if name == "" {
		name = identity.Email
	}
	if name == "" {
		name = AnonymousName
	}

	return &User{
		Subject: identity.Subject,
		Name:    name,
		Email:   identity.Email,
		Role:    role,
	}
}

// Identity is the fixed-shape value object produced by the identity
// resolver: a required subject plus optional profile claims. Empty strings
// mean the claim was absent.
type Identity struct {
	Subject string `json:"subject"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
}
