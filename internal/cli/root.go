package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/commands"
	"github.com/storefront-dev/storefront/internal/logger"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the storefront command tree. Options are passed to every
// subcommand.
func NewRootCmd(opts ...commands.Option) *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront - shop and administration client",
		Long: `Storefront CLI - browse products, manage your listings and moderate accounts.

Sessions are stored per server in the system keyring (or a file with
STOREFRONT_TOKEN_STORE=file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logLevel
			if !cmd.Flags().Changed("log-level") {
				if env := os.Getenv("STOREFRONT_LOG_LEVEL"); env != "" {
					level = env
				}
			}
			logger.Init(level, "console", cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("server", "", "Server URL or alias from storefront.json")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storefront version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewInitCmd(opts...))
	rootCmd.AddCommand(commands.NewSelectServerCmd(opts...))
	rootCmd.AddCommand(commands.NewLoginCmd(opts...))
	rootCmd.AddCommand(commands.NewRegisterCmd(opts...))
	rootCmd.AddCommand(commands.NewLogoutCmd(opts...))
	rootCmd.AddCommand(commands.NewWhoamiCmd(opts...))
	rootCmd.AddCommand(commands.NewProductsCmd(opts...))
	rootCmd.AddCommand(commands.NewAdminCmd(opts...))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
