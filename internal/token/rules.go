package token

import "github.com/golang-jwt/jwt/v5"

// Field names are tried in order; the first present field wins.
var (
	idFields    = []string{"uid", "sub"}
	emailFields = []string{"email", "sub"}
)

// roleRule reads roles from one payload field. ok is false when the field is
// missing or has the wrong JSON type, so the next rule is tried.
type roleRule struct {
	field   string
	extract func(v interface{}) (roles []string, ok bool)
}

var roleRules = []roleRule{
	{field: "roles", extract: roleList},
	{field: "authorities", extract: roleList},
	{field: "role", extract: singleRole},
}

func extractRoles(payload jwt.MapClaims) []string {
	for _, rule := range roleRules {
		v, present := payload[rule.field]
		if !present {
			continue
		}
		if roles, ok := rule.extract(v); ok {
			return NormalizeRoles(roles)
		}
	}
	return nil
}

func roleList(v interface{}) ([]string, bool) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, false
	}

	roles := make([]string, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			roles = append(roles, it)
		case map[string]interface{}:
			// {"authority": "ROLE_ADMIN"}
			if s, ok := it["authority"].(string); ok {
				roles = append(roles, s)
			}
		}
	}
	return roles, true
}

func singleRole(v interface{}) ([]string, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	return []string{s}, true
}
