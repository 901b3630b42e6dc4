package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/storefront-dev/storefront/internal/cli/client"
)

// commandFor translates a navigation path into the command that shows it
func commandFor(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case path == "/" || path == "":
		return "storefront products ls"
	case len(parts) == 1 && parts[0] == "products":
		return "storefront products ls"
	case len(parts) == 2 && parts[0] == "products" && parts[1] == "new":
		return "storefront products create"
	case len(parts) == 2 && parts[0] == "products":
		return "storefront products show " + parts[1]
	case len(parts) == 3 && parts[0] == "products" && parts[2] == "edit":
		return "storefront products edit " + parts[1]
	case len(parts) == 2 && parts[0] == "admin" && parts[1] == "users":
		return "storefront admin users ls"
	case len(parts) == 3 && parts[0] == "admin" && parts[1] == "users":
		return "storefront admin users show " + parts[2]
	default:
		return "storefront " + strings.Join(parts, " ")
	}
}

func formatPrice(p client.Product) string {
	if p.Currency == "" {
		return fmt.Sprintf("%.2f", p.Price)
	}
	return fmt.Sprintf("%.2f %s", p.Price, p.Currency)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printServerFieldErrors lists the per-field messages of an API rejection.
// Local validation errors already carry them in their message.
func printServerFieldErrors(w io.Writer, err error) {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || len(apiErr.FieldErrors) == 0 {
		return
	}
	names := make([]string, 0, len(apiErr.FieldErrors))
	for name := range apiErr.FieldErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, apiErr.FieldErrors[name])
	}
}
