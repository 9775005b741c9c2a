package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"storefront/pkg/account"
	"storefront/pkg/app"
	"storefront/pkg/auth"
	"storefront/pkg/cart"
	"storefront/pkg/config"
)

// cli is the state shared by every command of one invocation. open runs
// before any command; close must be called once Execute returns.
type cli struct {
	configPath string
	dbPath     string
	apiURL     string
	verbose    bool

	app     *app.App
	auth    *auth.Manager
	cart    *cart.Manager
	account *account.Service
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront.db"
	}
	return filepath.Join(dir, "storefront", "state.db")
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the Templo dos Magos catalogue and place orders",
		Long: `storefront talks to the Templo dos Magos REST API.

The cart and the login are kept in a local SQLite file (--db), so a cart
built in one run can be checked out in the next.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv(config.EnvFile), "YAML config file")
	root.PersistentFlags().StringVar(&c.dbPath, "db", defaultDBPath(), "SQLite file holding the cart and login")
	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "API base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		c.categoriesCmd(),
		c.productsCmd(),
		c.cartCmd(),
		c.checkoutCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.ordersCmd(),
		c.profileCmd(),
		c.cepCmd(),
	)
	return root, c
}

func (c *cli) open(ctx context.Context, stdout, stderr io.Writer) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.API.BaseURL = c.apiURL
	}
	cfg.Storage.Driver = config.StorageSQLite
	cfg.Storage.DSN = c.dbPath
	cfg.Kafka.Brokers = nil
	cfg.LogLevel = "warn"
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	if dir := filepath.Dir(c.dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	a, err := app.New(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	c.app = a
	c.auth = auth.New(ctx, a.API, a.Store,
		auth.WithLogger(a.Log),
		auth.WithNavigator(func(path string) {
			fmt.Fprintf(stdout, "Sessão encerrada. Voltando para %s\n", path)
		}),
	)
	c.cart = cart.New(ctx, a.Store, a.API, c.auth, cart.WithLogger(a.Log), cart.WithPublisher(a.Publisher))
	c.account = account.New(a.API, c.auth, a.Address, a.Log)
	return nil
}

func (c *cli) close(ctx context.Context) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close(ctx)
	c.app = nil
	return err
}
