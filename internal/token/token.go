// Package token extracts the identity and role claims the UI needs from an
// access token. Tokens are decoded, never verified: the remote API is the
// authority and anything read here is advisory.
package token

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the canonical view of a decoded access token payload
type Claims struct {
	ID    string   `json:"id,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether the claims carry role, compared case-insensitively
func (c *Claims) HasRole(role string) bool {
	if c == nil {
		return false
	}
	want := NormalizeRole(role)
	for _, r := range c.Roles {
		if r == want {
			return true
		}
	}
	return false
}

// NormalizeRole is the single role normalization used for storage and comparison
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// NormalizeRoles normalizes every role, dropping blanks and duplicates
func NormalizeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		n := NormalizeRole(r)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode returns the claims carried by raw, or false when raw is not a
// three-segment token whose middle segment is base64url-encoded JSON.
func Decode(raw string) (*Claims, bool) {
	payload, ok := decodePayload(raw)
	if !ok {
		return nil, false
	}

	return &Claims{
		ID:    firstString(payload, idFields),
		Email: firstString(payload, emailFields),
		Roles: extractRoles(payload),
	}, true
}

func decodePayload(raw string) (jwt.MapClaims, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, false
	}

	data, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var payload jwt.MapClaims
	if err := json.Unmarshal(data, &payload); err != nil || payload == nil {
		return nil, false
	}
	return payload, true
}

func firstString(payload jwt.MapClaims, fields []string) string {
	for _, field := range fields {
		if s, ok := scalarString(payload[field]); ok && s != "" {
			return s
		}
	}
	return ""
}

func scalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
