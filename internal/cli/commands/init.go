package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd(opts ...Option) *cobra.Command {
	o := buildOptions(opts)
	var alias string

	cmd := &cobra.Command{
		Use:   "init <api-url>",
		Short: "Add a storefront server to ./storefront.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := o.out
			if out == nil {
				out = cmd.OutOrStdout()
			}
			return runInit(out, args[0], alias)
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Alias for the server (default: local, then server-N)")

	return cmd
}

func runInit(out io.Writer, rawURL, alias string) error {
	apiURL, err := config.NormalizeURL(rawURL)
	if err != nil {
		return err
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Fprintf(out, "Found existing %s\n", config.ConfigFileName)
	} else {
		cfg = &config.Config{
			Servers: []config.Server{},
		}
		isNewConfig = true
	}

	// Check if server already exists
	if existing, err := cfg.GetServerByURLOrAlias(apiURL); err == nil {
		fmt.Fprintf(out, "Server %s already exists in %s (%s)\n", apiURL, config.ConfigFileName, existing.Alias)
	} else {
		if alias == "" {
			if len(cfg.Servers) == 0 {
				alias = "local"
			} else {
				alias = fmt.Sprintf("server-%d", len(cfg.Servers)+1)
			}
		}
		if _, err := cfg.GetServerByAlias(alias); err == nil {
			return fmt.Errorf("alias %q is already used in %s", alias, config.ConfigFileName)
		}

		cfg.Servers = append(cfg.Servers, config.Server{
			URL:   apiURL,
			Alias: alias,
		})

		if err := config.Save(configPath, cfg); err != nil {
			return err
		}

		if isNewConfig {
			fmt.Fprintf(out, "✓ Created ./%s with server %s (%s)\n", config.ConfigFileName, apiURL, alias)
		} else {
			fmt.Fprintf(out, "✓ Added server %s (%s) to ./%s\n", apiURL, alias, config.ConfigFileName)
		}
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Run 'storefront register' to create an account, or")
	fmt.Fprintln(out, "  2. Run 'storefront login' to authenticate")

	return nil
}
