package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{
			name:     "admin role",
			role:     RoleAdmin,
			expected: true,
		},
		{
			name:     "user role",
			role:     RoleUser,
			expected: false,
		},
		{
			name:     "zero value",
			role:     "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			assert.Equal(t, tt.expected, user.IsAdmin())
		})
	}
}

func TestNewUserFromIdentity(t *testing.T) {
	t.Run("uses name when present", func(t *testing.T) {
		user := NewUserFromIdentity(Identity{
			Subject: "sub-1",
			Name:    "Paul Atreides",
			Email:   "paul@arrakis.example",
		}, RoleUser)

		assert.Equal(t, "sub-1", user.Subject)
		assert.Equal(t, "Paul Atreides", user.Name)
		assert.Equal(t, "paul@arrakis.example", user.Email)
		assert.Equal(t, RoleUser, user.Role)
	})

	t.Run("falls back to email", func(t *testing.T) {
		user := NewUserFromIdentity(Identity{
			Subject: "sub-2",
			Email:   "paul@arrakis.example",
		}, RoleUser)

		assert.Equal(t, "paul@arrakis.example", user.Name)
	})

	t.Run("falls back to Anonymous", func(t *testing.T) {
		user := NewUserFromIdentity(Identity{Subject: "sub-3"}, RoleAdmin)

		assert.Equal(t, AnonymousName, user.Name)
		assert.Empty(t, user.Email)
		assert.Equal(t, RoleAdmin, user.Role)
	})
}

func TestRecommendation_IsOwnedBy(t *testing.T) {
	rec := &Recommendation{OwnerSubject: "sub-1"}

	assert.True(t, rec.IsOwnedBy("sub-1"))
	assert.False(t, rec.IsOwnedBy("sub-2"))
	assert.False(t, rec.IsOwnedBy(""))
}
