package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoles(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single role", "USER", []string{"USER"}},
		{"combined", "USER,ADMIN", []string{"USER", "ADMIN"}},
		{"empty string", "", nil},
		{"empty segments dropped", "USER,,ADMIN,", []string{"USER", "ADMIN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseRoles(tt.in))
		})
	}
}

func TestJoinRoles(t *testing.T) {
	require.Equal(t, "USER,ADMIN", JoinRoles([]string{"USER", "ADMIN"}))
	require.Equal(t, "", JoinRoles(nil))

	// Round trip.
	require.Equal(t, []string{"USER", "ADMIN"}, ParseRoles(JoinRoles([]string{"USER", "ADMIN"})))
}

func TestIsAdmin(t *testing.T) {
	require.False(t, User{Roles: []string{RoleUser}}.IsAdmin())
	require.True(t, User{Roles: []string{RoleUser, RoleAdmin}}.IsAdmin())
	require.False(t, User{}.IsAdmin())
}
