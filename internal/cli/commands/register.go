package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/client"
)

type registerFlags struct {
	firstName   string
	lastName    string
	email       string
	dateOfBirth string
	gender      string
	street      string
	number      string
	zipcode     string
	city        string
	country     string
	password    string
}

// NewRegisterCmd creates the register command
func NewRegisterCmd(opts ...Option) *cobra.Command {
	o := buildOptions(opts)
	var f registerFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a storefront account",
		Long: `Create a storefront account.

New accounts start as PENDING until an administrator accepts them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runRegister(e, f)
		},
	}

	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.dateOfBirth, "birth-date", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.gender, "gender", "", "Gender (MALE or FEMALE)")
	cmd.Flags().StringVar(&f.street, "street", "", "Street")
	cmd.Flags().StringVar(&f.number, "number", "", "House number")
	cmd.Flags().StringVar(&f.zipcode, "zipcode", "", "Postal code")
	cmd.Flags().StringVar(&f.city, "city", "", "City")
	cmd.Flags().StringVar(&f.country, "country", "", "Country")
	cmd.Flags().StringVar(&f.password, "password", "", "Password (or set STOREFRONT_PASSWORD, will prompt if not provided)")

	return cmd
}

func runRegister(e *env, f registerFlags) error {
	if err := e.authorize("/register"); err != nil {
		return err
	}

	password := f.password
	if password == "" {
		password = e.cfg.Password
	}
	confirmation := password
	if password == "" {
		p, err := readPassword(e.prompter, "Password")
		if err != nil {
			return err
		}
		c, err := e.prompter.Password("Confirm password")
		if err != nil {
			return err
		}
		password, confirmation = p, c
	}

	req := client.RegisterRequest{
		FirstName: strings.TrimSpace(f.firstName),
		LastName:  strings.TrimSpace(f.lastName),
		Email:     strings.TrimSpace(f.email),
		Address: client.Address{
			Street:  f.street,
			Number:  f.number,
			Zipcode: f.zipcode,
			Country: f.country,
			City:    f.city,
		},
		DateOfBirth:     f.dateOfBirth,
		Gender:          strings.ToUpper(f.gender),
		Password:        password,
		ConfirmPassword: confirmation,
	}

	resp, err := e.api.Register(e.ctx, req)
	if err != nil {
		printServerFieldErrors(e.out, err)
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := e.ctx.Err(); err != nil {
		return err
	}

	// Some servers sign the new user in straight away
	if resp.HasTokens() {
		if err := e.session.SetTokens(resp.AccessToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		fmt.Fprintln(e.out, "✓ Account created and logged in")
		return nil
	}

	fmt.Fprintln(e.out, "✓ Account created")
	if resp.User != nil {
		fmt.Fprintf(e.out, "  Status: %s\n", resp.User.EffectiveStatus())
	}
	fmt.Fprintln(e.out, "\nNext: storefront login --email "+req.Email)
	return nil
}
