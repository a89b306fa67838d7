package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
		ok   bool
	}{
		{raw: "admin", want: RoleAdmin, ok: true},
		{raw: "ADMIN", want: RoleAdmin, ok: true},
		{raw: " Seller ", want: RoleSeller, ok: true},
		{raw: "ROLE_USER", want: RoleUser, ok: true},
		{raw: "role_seller", want: RoleSeller, ok: true},
		{raw: "", ok: false},
		{raw: "staff", ok: false},
		{raw: "ROLE_", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseRole(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRolesAreValid(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("ADMIN").Valid())
}
