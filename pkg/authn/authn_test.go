package authn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertResourceRoles(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
		want   []string
	}{
		{
			name: "resource_access absent",
			claims: map[string]interface{}{
				"sub": "user-1",
			},
			want: []string{},
		},
		{
			name: "configured resource absent",
			claims: map[string]interface{}{
				"sub": "user-1",
				"resource_access": map[string]interface{}{
					"other-client": map[string]interface{}{
						"roles": []interface{}{"admin"},
					},
				},
			},
			want: []string{},
		},
		{
			name: "roles key absent",
			claims: map[string]interface{}{
				"sub": "user-1",
				"resource_access": map[string]interface{}{
					"svc": map[string]interface{}{},
				},
			},
			want: []string{},
		},
		{
			name: "resource_access not a mapping",
			claims: map[string]interface{}{
				"sub":             "user-1",
				"resource_access": "garbage",
			},
			want: []string{},
		},
		{
			name: "all three levels present",
			claims: map[string]interface{}{
				"sub": "user-1",
				"resource_access": map[string]interface{}{
					"svc": map[string]interface{}{
						"roles": []interface{}{"admin"},
					},
				},
			},
			want: []string{"ROLE_admin"},
		},
		{
			name: "multiple resource roles",
			claims: map[string]interface{}{
				"sub": "user-1",
				"resource_access": map[string]interface{}{
					"svc": map[string]interface{}{
						"roles": []interface{}{"user", "developer"},
					},
				},
			},
			want: []string{"ROLE_developer", "ROLE_user"},
		},
	}

	conv := NewConverter(WithResourceID("svc"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := conv.Convert(tt.claims)
			require.NoError(t, err)
			assert.Equal(t, tt.want, principal.Authorities)
		})
	}
}

func TestConvertFlatAndResourceRolesUnion(t *testing.T) {
	conv := NewConverter(WithResourceID("svc"))

	principal, err := conv.Convert(map[string]interface{}{
		"sub":   "user-1",
		"roles": []interface{}{"supervisor", "admin"},
		"resource_access": map[string]interface{}{
			"svc": map[string]interface{}{
				"roles": []interface{}{"admin", "user"},
			},
		},
	})
	require.NoError(t, err)

	// Union is deduplicated and sorted.
	assert.Equal(t, []string{"ROLE_admin", "ROLE_supervisor", "ROLE_user"}, principal.Authorities)
}

func TestConvertWithoutResourceID(t *testing.T) {
	conv := NewConverter()

	principal, err := conv.Convert(map[string]interface{}{
		"sub": "user-1",
		"resource_access": map[string]interface{}{
			"svc": map[string]interface{}{
				"roles": []interface{}{"admin"},
			},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, principal.Authorities)
}

func TestConvertPrincipalResolution(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		claims  map[string]interface{}
		want    string
		wantErr error
	}{
		{
			name:   "subject claim by default",
			claims: map[string]interface{}{"sub": "user-1"},
			want:   "user-1",
		},
		{
			name: "configured claim preferred",
			opts: []Option{WithPrincipalClaim("preferred_username")},
			claims: map[string]interface{}{
				"sub":                "user-1",
				"preferred_username": "alice",
			},
			want: "alice",
		},
		{
			name: "configured claim absent falls back to subject",
			opts: []Option{WithPrincipalClaim("preferred_username")},
			claims: map[string]interface{}{
				"sub": "user-1",
			},
			want: "user-1",
		},
		{
			name: "configured claim empty falls back to subject",
			opts: []Option{WithPrincipalClaim("preferred_username")},
			claims: map[string]interface{}{
				"sub":                "user-1",
				"preferred_username": "",
			},
			want: "user-1",
		},
		{
			name:    "neither claim resolves",
			opts:    []Option{WithPrincipalClaim("preferred_username")},
			claims:  map[string]interface{}{"roles": []interface{}{"admin"}},
			wantErr: ErrMissingPrincipalClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := NewConverter(tt.opts...)
			principal, err := conv.Convert(tt.claims)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, principal.Name)
		})
	}
}

func TestHasAnyAuthority(t *testing.T) {
	principal := AuthPrincipal{
		Name:        "user-1",
		Authorities: []string{"ROLE_user_client_role"},
	}

	assert.True(t, principal.HasAuthority("ROLE_user_client_role"))
	assert.False(t, principal.HasAuthority("ROLE_admin_client_role"))
	assert.True(t, principal.HasAnyAuthority("ROLE_admin_client_role", "ROLE_user_client_role"))
	assert.False(t, principal.HasAnyAuthority("ROLE_admin_client_role"))
	assert.False(t, principal.HasAnyAuthority())
}
