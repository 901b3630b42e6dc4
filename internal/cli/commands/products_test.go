package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-dev/storefront/internal/guard"
)

func defaultRoutesForTest() *guard.Table {
	return guard.DefaultTable()
}

func TestProductsCommands_PublicBrowsing(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("products", "ls")
	assert.Contains(t, out, "No products found.")

	_, err := h.run("products", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Product not found")
}

func TestProductsCreate_RequiresLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("products", "create", "--name", "Lamp", "--price", "10")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoginRequired))
	assert.Contains(t, err.Error(), "/products/new")

	products, err := h.api.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductsCommands_Lifecycle(t *testing.T) {
	h := newHarness(t)
	h.registerUser("owner@example.com")
	h.registerUser("other@example.com")

	h.loginAs("owner@example.com", userPassword)
	out := h.mustRun("products", "create", "--name", "Desk lamp", "--price", "25", "--category", "home")
	assert.Contains(t, out, "✓ Created product Desk lamp")
	h.mustRun("products", "create", "--name", "Boots", "--price", "80", "--category", "clothing", "--quantity", "3")

	products, err := h.api.ListProducts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, products, 2)
	var lampID string
	for _, p := range products {
		if p.Name == "Desk lamp" {
			lampID = p.ID
			assert.Equal(t, "EUR", p.Currency)
			assert.Equal(t, 1, p.Quantity)
			assert.Equal(t, "HOME", p.Category)
		}
	}
	require.NotEmpty(t, lampID)

	out = h.mustRun("products", "ls", "--sort", "price-desc")
	assert.Contains(t, out, "Page 1/1 (2 products)")
	assert.Less(t, strings.Index(out, "Boots"), strings.Index(out, "Desk lamp"))

	out = h.mustRun("products", "ls", "--category", "home")
	assert.Contains(t, out, "(1 products)")

	out = h.mustRun("products", "ls", "--max-price", "50")
	assert.NotContains(t, out, "Boots")

	out = h.mustRun("products", "show", lampID)
	assert.Contains(t, out, "You can edit this product")

	out = h.mustRun("products", "edit", lampID, "--price", "30")
	assert.Contains(t, out, "✓ Updated product Desk lamp")

	updated, err := h.api.GetProduct(context.Background(), lampID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.Price)
	assert.Equal(t, "HOME", updated.Category, "unchanged flags keep their values")

	// Someone else may look but not touch
	h.loginAs("other@example.com", userPassword)
	out = h.mustRun("products", "show", lampID)
	assert.NotContains(t, out, "You can edit this product")

	_, err = h.run("products", "edit", lampID, "--price", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = h.run("products", "delete", lampID, "--yes")
	assert.True(t, errors.Is(err, ErrForbidden))

	// Administrators may edit anything
	h.loginAs(adminEmail, adminPassword)
	h.mustRun("products", "edit", lampID, "--name", "Lamp")

	// The owner deletes after confirming
	h.loginAs("owner@example.com", userPassword)
	_, err = h.run("products", "delete", lampID)
	require.Error(t, err, "non-interactive deletes need --yes")

	h.prompter.interactive = true
	h.prompter.confirm = false
	out = h.mustRun("products", "delete", lampID)
	assert.Contains(t, out, "Cancelled.")

	h.prompter.confirm = true
	out = h.mustRun("products", "delete", lampID)
	assert.Contains(t, out, "✓ Deleted product Lamp")

	products, err = h.api.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestProductsList_InvalidSort(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("products", "ls", "--sort", "cheapest")
	require.Error(t, err)
}
