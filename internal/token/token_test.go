package token

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mint signs claims with a throwaway key; the decoder never checks it.
func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func rawToken(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecode_RejectsWrongSegmentCount(t *testing.T) {
	inputs := []string{
		"",
		"abc",
		"a.b",
		"a.b.c.d",
		"....",
		rawToken(`{"sub":"x"}`) + ".extra",
	}

	for _, in := range inputs {
		claims, ok := Decode(in)
		assert.False(t, ok, "input %q", in)
		assert.Nil(t, claims, "input %q", in)
	}
}

func TestDecode_RejectsMalformedPayload(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid base64", "header.%%%not-base64%%%.sig"},
		{"empty payload", "header..sig"},
		{"not json", rawToken("not json")},
		{"json array", rawToken(`["ADMIN"]`)},
		{"json null", rawToken(`null`)},
		{"truncated json", rawToken(`{"roles": [`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := Decode(tt.input)
			assert.False(t, ok)
			assert.Nil(t, claims)
		})
	}
}

func TestDecode_RolesListNormalizedToUppercase(t *testing.T) {
	claims, ok := Decode(mint(t, jwt.MapClaims{"roles": []string{"admin", " user ", "ADMIN"}}))
	require.True(t, ok)
	assert.Equal(t, []string{"ADMIN", "USER"}, claims.Roles)
	assert.True(t, claims.HasRole("Admin"))
}

func TestDecode_SingleRoleWrapped(t *testing.T) {
	claims, ok := Decode(mint(t, jwt.MapClaims{"role": "user"}))
	require.True(t, ok)
	assert.Equal(t, []string{"USER"}, claims.Roles)
}

func TestDecode_RoleFieldPriority(t *testing.T) {
	tests := []struct {
		name    string
		payload jwt.MapClaims
		want    []string
	}{
		{
			name:    "roles wins over authorities and role",
			payload: jwt.MapClaims{"roles": []string{"admin"}, "authorities": []string{"user"}, "role": "guest"},
			want:    []string{"ADMIN"},
		},
		{
			name:    "authorities when roles missing",
			payload: jwt.MapClaims{"authorities": []string{"user"}, "role": "guest"},
			want:    []string{"USER"},
		},
		{
			name:    "authority objects",
			payload: jwt.MapClaims{"authorities": []interface{}{map[string]interface{}{"authority": "role_admin"}, 42}},
			want:    []string{"ROLE_ADMIN"},
		},
		{
			name:    "roles of wrong type falls through",
			payload: jwt.MapClaims{"roles": "admin", "role": "user"},
			want:    []string{"USER"},
		},
		{
			name:    "empty roles list matches and yields nothing",
			payload: jwt.MapClaims{"roles": []string{}, "role": "user"},
			want:    nil,
		},
		{
			name:    "no role claims",
			payload: jwt.MapClaims{"sub": "someone"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, ok := Decode(mint(t, tt.payload))
			require.True(t, ok)
			assert.Equal(t, tt.want, claims.Roles)
		})
	}
}

func TestDecode_IdentityFallbacks(t *testing.T) {
	claims, ok := Decode(mint(t, jwt.MapClaims{"uid": "u-1", "sub": "jane@example.com"}))
	require.True(t, ok)
	assert.Equal(t, "u-1", claims.ID)
	assert.Equal(t, "jane@example.com", claims.Email)

	claims, ok = Decode(mint(t, jwt.MapClaims{"sub": "u-2", "email": "bob@example.com"}))
	require.True(t, ok)
	assert.Equal(t, "u-2", claims.ID)
	assert.Equal(t, "bob@example.com", claims.Email)

	claims, ok = Decode(mint(t, jwt.MapClaims{"uid": 1234567}))
	require.True(t, ok)
	assert.Equal(t, "1234567", claims.ID)
	assert.Empty(t, claims.Email)
}

func TestDecode_AcceptsPaddedSegment(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"role":"admin"}`))
	claims, ok := Decode("h." + payload + ".s")
	require.True(t, ok)
	assert.Equal(t, []string{"ADMIN"}, claims.Roles)
}

func TestDecode_IgnoresExpiry(t *testing.T) {
	claims, ok := Decode(mint(t, jwt.MapClaims{"sub": "u", "exp": 1}))
	require.True(t, ok)
	assert.Equal(t, "u", claims.ID)
}

func TestHasRole_NilClaims(t *testing.T) {
	var c *Claims
	assert.False(t, c.HasRole("ADMIN"))
}
