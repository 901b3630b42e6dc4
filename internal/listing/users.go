package listing

import (
	"strings"

	"github.com/storefront-dev/storefront/internal/cli/client"
)

// UserQuery describes the filters of the admin user list. An empty Status
// keeps every account.
type UserQuery struct {
	Status client.UserStatus
	Search string
}

// UserCounts holds per-status totals
type UserCounts struct {
	Total    int
	Pending  int
	Accepted int
	Rejected int
	Deleted  int
}

// FilterUsers applies q to users, keeping the input order
func FilterUsers(users []client.User, q UserQuery) []client.User {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	want := client.UserStatus(strings.ToUpper(string(q.Status)))

	out := make([]client.User, 0, len(users))
	for i := range users {
		u := users[i]
		if want != "" && u.EffectiveStatus() != want {
			continue
		}
		if search != "" {
			hay := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email)
			if !strings.Contains(hay, search) {
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

// CountUsers tallies users by status; a missing status counts as PENDING
func CountUsers(users []client.User) UserCounts {
	counts := UserCounts{Total: len(users)}
	for i := range users {
		switch users[i].EffectiveStatus() {
		case client.StatusPending:
			counts.Pending++
		case client.StatusAccepted:
			counts.Accepted++
		case client.StatusRejected:
			counts.Rejected++
		case client.StatusDeleted:
			counts.Deleted++
		}
	}
	return counts
}
