package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/me/yogastudio/internal/api"
	"github.com/me/yogastudio/internal/app"
	"github.com/me/yogastudio/internal/auth"
	"github.com/me/yogastudio/internal/config"
	"github.com/me/yogastudio/internal/credstore"
	"github.com/me/yogastudio/internal/logging"
)

var (
	flagConfig string
	flagDebug  bool

	cfg    config.ClientConfig
	logger *slog.Logger
	state  *auth.State
	creds  *credstore.SQLiteStore
	unbind func()
	yoga   *app.App
)

// NewRootCmd creates the root cobra command for the yoga CLI.
func NewRootCmd() *cobra.Command {
	def := config.DefaultClientConfig()

	root := &cobra.Command{
		Use:   "yoga",
		Short: "Yoga studio session booking client",
		Long: "yoga books yoga sessions against a studio backend: log in, browse sessions " +
			"and teachers, join or leave sessions, and manage sessions as an admin.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String(config.KeyServer, def.Server, "Studio backend URL (or YOGA_SERVER env)")
	pf.String(config.KeyDB, "", "Credential database (default ~/.yoga/yoga.db)")
	pf.String(config.KeyLogLevel, def.LogLevel, "Log level (debug, info, warn, error)")
	pf.String(config.KeyLogFormat, def.LogFormat, "Log format (text, json)")
	pf.StringP(config.KeyOutput, "o", def.Output, "Output format (table, json, yaml)")
	pf.Duration(config.KeyTimeout, def.Timeout, "HTTP request timeout")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.StringVar(&flagConfig, "config", "", "Config file (default ~/.yoga/config.yaml)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newMeCmd(),
		newSessionsCmd(),
		newParticipateCmd(),
		newUnparticipateCmd(),
		newTeachersCmd(),
	)

	return root
}

// Execute runs the CLI and releases the credential store afterwards,
// whether or not the command succeeded.
func Execute(ctx context.Context) error {
	defer teardown()
	return NewRootCmd().ExecuteContext(ctx)
}

// setup resolves configuration and builds the App shared by every command:
// the login state is restored from the credential store and kept in sync with it.
func setup(cmd *cobra.Command) error {
	teardown()

	c, err := config.Load(cmd.Root().PersistentFlags(), flagConfig)
	if err != nil {
		return err
	}
	if flagDebug {
		c.LogLevel = "debug"
	}
	cfg = c
	logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return err
	}
	st, err := credstore.NewSQLiteStore(dbPath, logger)
	if err != nil {
		return err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		st.Close()
		return fmt.Errorf("migrate credential store: %w", err)
	}
	creds = st

	state = auth.NewState(logger)
	unbind, err = credstore.Bind(cmd.Context(), creds, state, cfg.Server, logger)
	if err != nil {
		return err
	}

	client := api.NewClient(
		api.DefaultConfig().WithBaseURL(cfg.Server).WithTimeout(cfg.Timeout),
		logger,
		api.WithTokenSource(state),
	)
	yoga = app.New(client, state, logger)
	logger.Debug("cli ready", "server", cfg.Server, "db", dbPath, "logged_in", state.IsLogged())
	return nil
}

// teardown releases what setup opened. It is safe to call repeatedly.
func teardown() {
	if yoga != nil {
		yoga.Close()
		yoga = nil
	}
	if unbind != nil {
		unbind()
		unbind = nil
	}
	if creds != nil {
		creds.Close()
		creds = nil
	}
	state = nil
}

// explain adds a next step to errors the user can act on.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, app.ErrLoginRequired):
		return fmt.Errorf("%w: run 'yoga login' first", err)
	case api.IsUnauthorized(err):
		return fmt.Errorf("%w (your login may have expired; run 'yoga login')", err)
	case api.IsNotFound(err):
		return fmt.Errorf("not found: %w", err)
	}
	return err
}
