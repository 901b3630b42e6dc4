package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/storefront-dev/storefront/internal/cli/client"
	"github.com/storefront-dev/storefront/internal/cli/config"
	"github.com/storefront-dev/storefront/internal/cli/serverselect"
	appconfig "github.com/storefront-dev/storefront/internal/config"
	"github.com/storefront-dev/storefront/internal/guard"
	"github.com/storefront-dev/storefront/internal/session"
	"github.com/storefront-dev/storefront/internal/storage"
)

var (
	// ErrLoginRequired is returned when a command needs a session and none exists
	ErrLoginRequired = errors.New("login required")
	// ErrForbidden is returned when the session lacks a required role
	ErrForbidden = errors.New("access denied")
)

// API is the subset of the storefront client used by commands
type API interface {
	BaseURL() string
	Login(ctx context.Context, req client.LoginRequest) (*client.AuthResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.AuthResponse, error)
	Logout(ctx context.Context) error
	ListProducts(ctx context.Context, category string) ([]client.Product, error)
	GetProduct(ctx context.Context, id string) (*client.Product, error)
	CreateProduct(ctx context.Context, req client.ProductRequest) (*client.Product, error)
	UpdateProduct(ctx context.Context, id string, req client.ProductRequest) (*client.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]client.User, error)
	GetUser(ctx context.Context, id string) (*client.UserDetail, error)
	UpdateUserStatus(ctx context.Context, id string, status client.UserStatus) error
}

// options carries injectable dependencies. Anything left nil is built from
// the environment when the command runs.
type options struct {
	api      API
	session  *session.Store
	out      io.Writer
	prompter Prompter
	routes   *guard.Table
	logger   *zerolog.Logger
	cliCfg   *appconfig.CLIConfig
}

// Option configures the dependencies of a command
type Option func(*options)

// WithAPIClient sets the API client used by commands
func WithAPIClient(api API) Option {
	return func(o *options) {
		o.api = api
	}
}

// WithSessionStore sets the session store used by commands
func WithSessionStore(s *session.Store) Option {
	return func(o *options) {
		o.session = s
	}
}

// WithOutput redirects command output
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithPrompter replaces the interactive terminal prompts
func WithPrompter(p Prompter) Option {
	return func(o *options) {
		o.prompter = p
	}
}

// WithLogger sets the logger used by commands
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &l
	}
}

// WithCLIConfig overrides the environment-derived CLI settings
func WithCLIConfig(cfg *appconfig.CLIConfig) Option {
	return func(o *options) {
		o.cliCfg = cfg
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// env holds the resolved dependencies of one command invocation
type env struct {
	ctx      context.Context
	api      API
	session  *session.Store
	out      io.Writer
	prompter Prompter
	routes   *guard.Table
	logger   zerolog.Logger
	cfg      *appconfig.CLIConfig
}

// resolve builds the dependencies for cmd, reusing injected ones
func (o *options) resolve(cmd *cobra.Command) (*env, error) {
	e := &env{
		ctx:      cmd.Context(),
		api:      o.api,
		session:  o.session,
		out:      o.out,
		prompter: o.prompter,
		routes:   o.routes,
		cfg:      o.cliCfg,
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	if e.out == nil {
		e.out = cmd.OutOrStdout()
	}
	if e.prompter == nil {
		e.prompter = NewTerminalPrompter(e.out)
	}
	if e.routes == nil {
		e.routes = guard.DefaultTable()
	}
	if o.logger != nil {
		e.logger = *o.logger
	} else {
		e.logger = log.Logger
	}
	if e.cfg == nil {
		cfg, err := appconfig.LoadCLI()
		if err != nil {
			return nil, err
		}
		e.cfg = cfg
	}

	if e.api != nil && e.session != nil {
		return e, nil
	}

	baseURL := ""
	if e.api != nil {
		baseURL = e.api.BaseURL()
	} else {
		serverAlias, _ := cmd.Flags().GetString("server")
		u, err := resolveBaseURL(e.cfg, serverAlias, cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		baseURL = u
	}

	if e.session == nil {
		st, err := storage.Open(e.cfg.TokenStore, baseURL)
		if err != nil {
			return nil, err
		}
		store, err := session.Open(st, session.WithLogger(e.logger))
		if err != nil {
			return nil, err
		}
		e.session = store
	}

	if e.api == nil {
		e.api = client.New(baseURL,
			client.WithTokenSource(e.session),
			client.WithTimeout(e.cfg.Timeout),
			client.WithLogger(e.logger),
		)
	}

	return e, nil
}

// resolveBaseURL picks the API URL: STOREFRONT_API_URL, then the selected
// server of storefront.json, then the local default.
func resolveBaseURL(cfg *appconfig.CLIConfig, serverAlias string, warn io.Writer) (string, error) {
	if cfg.APIURL != "" && serverAlias == "" {
		return config.NormalizeURL(cfg.APIURL)
	}

	projectConfig, err := config.LoadFromCurrentDir()
	if err != nil {
		if serverAlias != "" {
			return "", fmt.Errorf("failed to load config: %w\nRun 'storefront init <api-url>' to create a configuration file", err)
		}
		if _, statErr := config.FindConfigFile(); statErr == nil {
			// The file exists but is broken; don't silently fall back
			return "", err
		}
		return client.DefaultBaseURL, nil
	}

	server, err := serverselect.ResolveServer(projectConfig, serverAlias, warn)
	if err != nil {
		return "", err
	}
	return config.NormalizeURL(server.URL)
}

// authorize runs the navigation guard for path
func (e *env) authorize(path string) error {
	decision, err := e.routes.Authorize(e.session.Session(), path)
	if err != nil {
		return err
	}

	e.logger.Debug().
		Str("path", path).
		Str("outcome", decision.Outcome.String()).
		Msg("Guard decision")

	switch decision.Outcome {
	case guard.RedirectLogin:
		return fmt.Errorf("%w to open %s\nRun 'storefront login' first", ErrLoginRequired, decision.From)
	case guard.RedirectForbidden:
		return fmt.Errorf("%w: %s requires a role you do not have", ErrForbidden, path)
	default:
		return nil
	}
}

// apiError adds a hint to errors the user can act on
func apiError(err error) error {
	if client.IsUnauthorized(err) {
		return fmt.Errorf("%w\nYour session may have expired. Run 'storefront login' again", err)
	}
	return err
}

func isInteractive() bool {
	return isTerminal(os.Stdin)
}
