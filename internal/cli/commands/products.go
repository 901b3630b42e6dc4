package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/client"
	"github.com/storefront-dev/storefront/internal/guard"
	"github.com/storefront-dev/storefront/internal/listing"
)

// NewProductsCmd creates the products command group
func NewProductsCmd(opts ...Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse and manage products",
	}

	cmd.AddCommand(newProductsListCmd(opts))
	cmd.AddCommand(newProductsShowCmd(opts))
	cmd.AddCommand(newProductsCreateCmd(opts))
	cmd.AddCommand(newProductsEditCmd(opts))
	cmd.AddCommand(newProductsDeleteCmd(opts))

	return cmd
}

func productPath(id string) string {
	return "/products/" + id
}

func newProductsListCmd(opts []Option) *cobra.Command {
	o := buildOptions(opts)
	var (
		q                  listing.ProductQuery
		sortBy             string
		minPrice, maxPrice float64
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List products",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sortKey, err := listing.ParseProductSort(sortBy)
			if err != nil {
				return err
			}
			q.Sort = sortKey
			if cmd.Flags().Changed("min-price") {
				q.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				q.MaxPrice = &maxPrice
			}

			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runProductsList(e, q)
		},
	}

	cmd.Flags().StringVar(&q.Category, "category", "", "Only show this category")
	cmd.Flags().StringVar(&q.Search, "search", "", "Search name, description and category")
	cmd.Flags().StringVar(&q.Status, "status", "", "Only show this status (e.g. ACTIVE)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "Minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "Maximum price")
	cmd.Flags().StringVar(&sortBy, "sort", string(listing.SortNewest), "Sort by newest, price-asc, price-desc or name")
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.PageSize, "page-size", listing.DefaultPageSize, "Products per page")

	return cmd
}

func runProductsList(e *env, q listing.ProductQuery) error {
	if err := e.authorize("/products"); err != nil {
		return err
	}

	products, err := e.api.ListProducts(e.ctx, strings.ToUpper(q.Category))
	if err != nil {
		return apiError(err)
	}

	page := listing.FilterProducts(products, q)
	if page.Total == 0 {
		fmt.Fprintln(e.out, "No products found.")
		return nil
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCATEGORY\tSTATUS\tQTY")
	fmt.Fprintln(w, "──\t────\t─────\t────────\t──────\t───")

	for _, p := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			p.ID,
			p.Name,
			formatPrice(p),
			orDash(p.Category),
			orDash(p.Status),
			p.Quantity,
		)
	}

	w.Flush()

	fmt.Fprintf(e.out, "\nPage %d/%d (%d products)\n", page.Page, page.TotalPages, page.Total)
	return nil
}

func newProductsShowCmd(opts []Option) *cobra.Command {
	o := buildOptions(opts)

	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runProductsShow(e, args[0])
		},
	}
}

func runProductsShow(e *env, id string) error {
	if err := e.authorize(productPath(id)); err != nil {
		return err
	}

	p, err := e.api.GetProduct(e.ctx, id)
	if err != nil {
		return apiError(err)
	}

	fmt.Fprintf(e.out, "%s\n\n", p.Name)
	fmt.Fprintf(e.out, "ID:          %s\n", p.ID)
	fmt.Fprintf(e.out, "Price:       %s\n", formatPrice(*p))
	fmt.Fprintf(e.out, "Category:    %s\n", orDash(p.Category))
	fmt.Fprintf(e.out, "Status:      %s\n", orDash(p.Status))
	fmt.Fprintf(e.out, "Quantity:    %d\n", p.Quantity)
	if p.Description != "" {
		fmt.Fprintf(e.out, "Description: %s\n", p.Description)
	}
	for _, u := range p.ImageURLs {
		fmt.Fprintf(e.out, "Image:       %s\n", u)
	}
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(e.out, "Created:     %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	}
	if guard.CanEditProduct(e.session.Session(), p.OwnerID) {
		fmt.Fprintf(e.out, "\nYou can edit this product: storefront products edit %s\n", p.ID)
	}
	return nil
}

// productFlags binds the editable product fields to flags
type productFlags struct {
	name        string
	description string
	price       float64
	currency    string
	category    string
	images      []string
	quantity    int
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Price")
	cmd.Flags().StringVar(&f.currency, "currency", "EUR", "ISO currency code")
	cmd.Flags().StringVar(&f.category, "category", "OTHER", "Category")
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "Image URL (repeatable)")
	cmd.Flags().IntVar(&f.quantity, "quantity", 1, "Quantity in stock")
}

// applyChanged copies only the flags the user set onto req
func (f *productFlags) applyChanged(cmd *cobra.Command, req *client.ProductRequest) {
	changed := cmd.Flags().Changed
	if changed("name") {
		req.Name = f.name
	}
	if changed("description") {
		req.Description = f.description
	}
	if changed("price") {
		req.Price = f.price
	}
	if changed("currency") {
		req.Currency = strings.ToUpper(f.currency)
	}
	if changed("category") {
		req.Category = strings.ToUpper(f.category)
	}
	if changed("image") {
		req.ImageURLs = f.images
	}
	if changed("quantity") {
		req.Quantity = f.quantity
	}
}

func (f *productFlags) request() client.ProductRequest {
	return client.ProductRequest{
		Name:        strings.TrimSpace(f.name),
		Description: f.description,
		Price:       f.price,
		Currency:    strings.ToUpper(f.currency),
		Category:    strings.ToUpper(f.category),
		ImageURLs:   f.images,
		Quantity:    f.quantity,
	}
}

func newProductsCreateCmd(opts []Option) *cobra.Command {
	o := buildOptions(opts)
	var f productFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runProductsCreate(e, f.request())
		},
	}
	f.register(cmd)

	return cmd
}

func runProductsCreate(e *env, req client.ProductRequest) error {
	if err := e.authorize("/products/new"); err != nil {
		return err
	}

	p, err := e.api.CreateProduct(e.ctx, req)
	if err != nil {
		printServerFieldErrors(e.out, err)
		return apiError(err)
	}

	fmt.Fprintf(e.out, "✓ Created product %s (%s)\n", p.Name, p.ID)
	return nil
}

func newProductsEditCmd(opts []Option) *cobra.Command {
	o := buildOptions(opts)
	var f productFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runProductsEdit(e, args[0], func(req *client.ProductRequest) {
				f.applyChanged(cmd, req)
			})
		},
	}
	f.register(cmd)

	return cmd
}

// loadEditable fetches a product and checks the session may change it
func loadEditable(e *env, id string) (*client.Product, error) {
	if err := e.authorize(productPath(id) + "/edit"); err != nil {
		return nil, err
	}

	p, err := e.api.GetProduct(e.ctx, id)
	if err != nil {
		return nil, apiError(err)
	}

	if !guard.CanEditProduct(e.session.Session(), p.OwnerID) {
		return nil, fmt.Errorf("%w: only the owner or an administrator can modify product %s", ErrForbidden, id)
	}
	return p, nil
}

func runProductsEdit(e *env, id string, apply func(*client.ProductRequest)) error {
	p, err := loadEditable(e, id)
	if err != nil {
		return err
	}

	req := p.RequestFrom()
	apply(&req)

	updated, err := e.api.UpdateProduct(e.ctx, id, req)
	if err != nil {
		printServerFieldErrors(e.out, err)
		return apiError(err)
	}

	fmt.Fprintf(e.out, "✓ Updated product %s (%s)\n", updated.Name, updated.ID)
	return nil
}

func newProductsDeleteCmd(opts []Option) *cobra.Command {
	o := buildOptions(opts)
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a product you own",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runProductsDelete(e, args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runProductsDelete(e *env, id string, yes bool) error {
	p, err := loadEditable(e, id)
	if err != nil {
		return err
	}

	if err := confirm(e.prompter, yes, fmt.Sprintf("Delete product %s", p.Name)); err != nil {
		if err == errCancelled {
			fmt.Fprintln(e.out, "Cancelled.")
			return nil
		}
		return err
	}

	if err := e.api.DeleteProduct(e.ctx, id); err != nil {
		return apiError(err)
	}

	fmt.Fprintf(e.out, "✓ Deleted product %s (%s)\n", p.Name, p.ID)
	return nil
}
