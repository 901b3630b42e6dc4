package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/client"
	"github.com/storefront-dev/storefront/internal/listing"
)

// NewAdminCmd creates the admin command group
func NewAdminCmd(opts ...Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands (ADMIN role required)",
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "Moderate user accounts",
	}
	users.AddCommand(newUsersListCmd(opts))
	users.AddCommand(newUsersShowCmd(opts))
	users.AddCommand(newUsersSetStatusCmd(opts))

	cmd.AddCommand(users)
	return cmd
}

func adminUserPath(id string) string {
	return "/admin/users/" + id
}

func newUsersListCmd(opts []Option) *cobra.Command {
	o := buildOptions(opts)
	var status, search string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List user accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := listing.UserQuery{Search: search}
			if status != "" {
				s, err := client.ParseUserStatus(status)
				if err != nil {
					return err
				}
				q.Status = s
			}

			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runUsersList(e, q)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show this status (PENDING, ACCEPTED, REJECTED, DELETED)")
	cmd.Flags().StringVar(&search, "search", "", "Search name and email")

	return cmd
}

func runUsersList(e *env, q listing.UserQuery) error {
	if err := e.authorize("/admin/users"); err != nil {
		return err
	}

	users, err := e.api.ListUsers(e.ctx)
	if err != nil {
		return apiError(err)
	}

	counts := listing.CountUsers(users)
	fmt.Fprintf(e.out, "Total %d  Pending %d  Accepted %d  Rejected %d  Deleted %d\n\n",
		counts.Total, counts.Pending, counts.Accepted, counts.Rejected, counts.Deleted)

	filtered := listing.FilterUsers(users, q)
	if len(filtered) == 0 {
		fmt.Fprintln(e.out, "No users found.")
		return nil
	}

	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTATUS")
	fmt.Fprintln(w, "──\t────\t─────\t──────")

	for i := range filtered {
		u := &filtered[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			u.ID,
			strings.TrimSpace(u.FirstName+" "+u.LastName),
			u.Email,
			u.EffectiveStatus(),
		)
	}

	w.Flush()
	return nil
}

func newUsersShowCmd(opts []Option) *cobra.Command {
	o := buildOptions(opts)

	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runUsersShow(e, args[0])
		},
	}
}

func runUsersShow(e *env, id string) error {
	if err := e.authorize(adminUserPath(id)); err != nil {
		return err
	}

	u, err := e.api.GetUser(e.ctx, id)
	if err != nil {
		return apiError(err)
	}

	fmt.Fprintf(e.out, "ID:            %s\n", u.ID)
	fmt.Fprintf(e.out, "Name:          %s\n", strings.TrimSpace(u.FirstName+" "+u.LastName))
	fmt.Fprintf(e.out, "Email:         %s\n", u.Email)
	fmt.Fprintf(e.out, "Status:        %s\n", u.EffectiveStatus())
	fmt.Fprintf(e.out, "Roles:         %s\n", orDash(strings.Join(u.Roles, ", ")))
	fmt.Fprintf(e.out, "Gender:        %s\n", orDash(u.Gender))
	fmt.Fprintf(e.out, "Date of birth: %s\n", orDash(u.DateOfBirth))
	if a := u.Address; a != nil {
		fmt.Fprintf(e.out, "Address:       %s\n", strings.TrimSpace(fmt.Sprintf("%s %s, %s %s, %s", a.Street, a.Number, a.Zipcode, a.City, a.Country)))
	}
	return nil
}

func newUsersSetStatusCmd(opts []Option) *cobra.Command {
	o := buildOptions(opts)
	var yes bool

	cmd := &cobra.Command{
		Use:   "set-status <id> [status]",
		Short: "Accept, reject or delete a user account",
		Long: `Change the moderation status of a user account.

Without a status argument an interactive selection is shown.

Examples:
  $ storefront admin users set-status 01J... ACCEPTED
  $ storefront admin users set-status 01J...            # Interactive selection`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var status string
			if len(args) > 1 {
				status = args[1]
			}

			e, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			return runUsersSetStatus(e, args[0], status, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runUsersSetStatus(e *env, id, rawStatus string, yes bool) error {
	if err := e.authorize(adminUserPath(id)); err != nil {
		return err
	}

	var status client.UserStatus
	if rawStatus != "" {
		s, err := client.ParseUserStatus(rawStatus)
		if err != nil {
			return err
		}
		status = s
	} else {
		if !e.prompter.Interactive() {
			return fmt.Errorf("status is required in non-interactive mode")
		}
		items := make([]string, len(client.UserStatuses))
		for i, s := range client.UserStatuses {
			items[i] = string(s)
		}
		index, err := e.prompter.Select("Select a status", items)
		if err != nil {
			return err
		}
		status = client.UserStatuses[index]
	}

	// Rejecting or deleting locks the user out, so ask first
	if status == client.StatusRejected || status == client.StatusDeleted {
		if err := confirm(e.prompter, yes, fmt.Sprintf("Set user %s to %s", id, status)); err != nil {
			if err == errCancelled {
				fmt.Fprintln(e.out, "Cancelled.")
				return nil
			}
			return err
		}
	}

	if err := e.api.UpdateUserStatus(e.ctx, id, status); err != nil {
		return apiError(err)
	}

	fmt.Fprintf(e.out, "✓ User %s is now %s\n", id, status)
	return nil
}
