package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-dev/storefront/internal/cli/client"
)

func TestAdminUsers_RequiresLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("admin", "users", "ls")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoginRequired))
	assert.Contains(t, err.Error(), "/admin/users")
}

func TestAdminUsers_ForbiddenForRegularUser(t *testing.T) {
	h := newHarness(t)
	id := h.registerUser("jane@example.com")
	h.loginAs("jane@example.com", userPassword)

	for _, args := range [][]string{
		{"admin", "users", "ls"},
		{"admin", "users", "show", id},
		{"admin", "users", "set-status", id, "ACCEPTED"},
	} {
		_, err := h.run(args...)
		require.Error(t, err, args)
		assert.True(t, errors.Is(err, ErrForbidden), args)
	}
}

func TestAdminUsers_ListAndShow(t *testing.T) {
	h := newHarness(t)
	id := h.registerUser("jane@example.com")
	h.registerUser("john@example.com")
	h.loginAs(adminEmail, adminPassword)

	out := h.mustRun("admin", "users", "ls")
	assert.Contains(t, out, "Total 3  Pending 2  Accepted 1  Rejected 0  Deleted 0")
	assert.Contains(t, out, "jane@example.com")

	out = h.mustRun("admin", "users", "ls", "--search", "JOHN")
	assert.Contains(t, out, "john@example.com")
	assert.NotContains(t, out, "jane@example.com")

	out = h.mustRun("admin", "users", "ls", "--status", "accepted")
	assert.Contains(t, out, adminEmail)
	assert.NotContains(t, out, "jane@example.com")

	_, err := h.run("admin", "users", "ls", "--status", "banned")
	require.Error(t, err)

	out = h.mustRun("admin", "users", "show", id)
	assert.Contains(t, out, "Status:        PENDING")
	assert.Contains(t, out, "Date of birth: 1990-05-01")
	assert.Contains(t, out, "Brussels")
}

func TestAdminUsers_SetStatus(t *testing.T) {
	h := newHarness(t)
	id := h.registerUser("jane@example.com")
	h.loginAs(adminEmail, adminPassword)

	out := h.mustRun("admin", "users", "set-status", id, "accepted")
	assert.Contains(t, out, "is now ACCEPTED")

	u, err := h.api.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, client.StatusAccepted, u.EffectiveStatus())

	// Rejecting asks for confirmation
	_, err = h.run("admin", "users", "set-status", id, "REJECTED")
	require.Error(t, err)

	h.mustRun("admin", "users", "set-status", id, "REJECTED", "--yes")
	u, err = h.api.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, client.StatusRejected, u.EffectiveStatus())

	// Rejected accounts cannot sign in any more
	_, err = h.run("login", "--email", "jane@example.com", "--password", userPassword)
	require.Error(t, err)
	assert.True(t, client.IsForbidden(err))
}

func TestAdminUsers_SetStatusInteractive(t *testing.T) {
	h := newHarness(t)
	id := h.registerUser("jane@example.com")
	h.loginAs(adminEmail, adminPassword)

	_, err := h.run("admin", "users", "set-status", id)
	require.Error(t, err, "status is required without a terminal")

	h.prompter.interactive = true
	h.prompter.selectIndex = 3 // DELETED
	h.prompter.confirm = false

	out := h.mustRun("admin", "users", "set-status", id)
	assert.Contains(t, out, "Cancelled.")
	assert.Equal(t, []string{"Select a status", "Set user " + id + " to DELETED"}, h.prompter.asked)

	u, err := h.api.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, client.StatusPending, u.EffectiveStatus())

	h.prompter.selectIndex = 1 // ACCEPTED needs no confirmation
	out = h.mustRun("admin", "users", "set-status", id)
	assert.Contains(t, out, "is now ACCEPTED")
}
