package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/storefront-dev/storefront/internal/cli/client"
	appconfig "github.com/storefront-dev/storefront/internal/config"
	"github.com/storefront-dev/storefront/internal/server"
	"github.com/storefront-dev/storefront/internal/session"
	"github.com/storefront-dev/storefront/internal/storage"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
	userPassword  = "password123"
)

// fakePrompter answers prompts from canned values
type fakePrompter struct {
	interactive bool
	passwords   []string
	confirm     bool
	selectIndex int
	asked       []string
}

func (p *fakePrompter) Interactive() bool { return p.interactive }

func (p *fakePrompter) Password(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.passwords) == 0 {
		return "", nil
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, nil
}

func (p *fakePrompter) Confirm(label string) (bool, error) {
	p.asked = append(p.asked, label)
	return p.confirm, nil
}

func (p *fakePrompter) Select(label string, items []string) (int, error) {
	p.asked = append(p.asked, label)
	return p.selectIndex, nil
}

// harness runs commands against an in-process devserver with an in-memory session
type harness struct {
	t        *testing.T
	srv      *server.Server
	url      string
	store    *session.Store
	storage  *storage.Memory
	api      *client.Client
	prompter *fakePrompter
	cliCfg   *appconfig.CLIConfig
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("STOREFRONT_CONFIG_DIR", t.TempDir())

	srv, err := server.New(&appconfig.Config{
		Database: appconfig.DatabaseConfig{URL: filepath.Join(t.TempDir(), "cli.sqlite")},
		Server:   appconfig.ServerConfig{CORSOrigins: []string{"http://localhost:5173"}},
		Auth:     appconfig.AuthConfig{JWTSecret: "cli-test-secret", AccessTokenTTL: time.Minute},
		Admin:    appconfig.AdminConfig{Email: adminEmail, Password: adminPassword},
	}, zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})

	h := &harness{
		t:        t,
		srv:      srv,
		url:      ts.URL,
		storage:  storage.NewMemory(),
		prompter: &fakePrompter{},
		cliCfg:   &appconfig.CLIConfig{TokenStore: storage.KindMemory, Timeout: 5 * time.Second},
	}
	h.store, err = session.Open(h.storage)
	require.NoError(t, err)
	h.api = client.New(ts.URL, client.WithTokenSource(h.store))
	return h
}

// run executes one command line and returns its output
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	var out bytes.Buffer
	opts := []Option{
		WithAPIClient(h.api),
		WithSessionStore(h.store),
		WithOutput(&out),
		WithPrompter(h.prompter),
		WithLogger(zerolog.Nop()),
		WithCLIConfig(h.cliCfg),
	}

	root := &cobra.Command{Use: "storefront", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("server", "", "")
	root.AddCommand(
		NewInitCmd(opts...),
		NewLoginCmd(opts...),
		NewRegisterCmd(opts...),
		NewLogoutCmd(opts...),
		NewWhoamiCmd(opts...),
		NewProductsCmd(opts...),
		NewAdminCmd(opts...),
	)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) loginAs(email, password string) {
	h.t.Helper()
	h.mustRun("login", "--email", email, "--password", password)
}

// registerUser creates an account through the register command and returns its id
func (h *harness) registerUser(email string) string {
	h.t.Helper()
	h.mustRun("register",
		"--first-name", "Jane",
		"--last-name", "Doe",
		"--email", email,
		"--birth-date", "1990-05-01",
		"--street", "Main Street",
		"--zipcode", "1000",
		"--city", "Brussels",
		"--country", "BE",
		"--password", userPassword,
	)

	users, err := h.adminAPI().ListUsers(context.Background())
	require.NoError(h.t, err)
	for _, u := range users {
		if u.Email == email {
			return u.ID
		}
	}
	h.t.Fatalf("registered user %s not found", email)
	return ""
}

// adminAPI returns a client with its own admin session, independent of h.store
func (h *harness) adminAPI() *client.Client {
	h.t.Helper()
	store, err := session.Open(storage.NewMemory())
	require.NoError(h.t, err)
	api := client.New(h.url, client.WithTokenSource(store))
	resp, err := api.Login(context.Background(), client.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(h.t, err)
	require.NoError(h.t, store.SetTokens(resp.AccessToken, resp.RefreshToken))
	return api
}
