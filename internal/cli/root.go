package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/justyntemme/libcat/internal/api"
	"github.com/justyntemme/libcat/internal/config"
	"github.com/justyntemme/libcat/internal/logging"
	"github.com/justyntemme/libcat/internal/session"
)

// env is shared by every command of one invocation
type env struct {
	cfgFile string
	verbose bool
	asJSON  bool

	store *config.Store
	cfg   *config.Config
	level slog.Level

	out io.Writer
	err io.Writer
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	e := &env{}

	var open string
	rootCmd := &cobra.Command{
		Use:   "libcat",
		Short: "Browse a library catalog from the terminal",
		Long: `libcat is a client for a library catalog service.

Without a subcommand it opens the interactive browser.

Examples:
  libcat                                   Open the browser
  libcat --open "books?genre=Roman"        Open the browser on a filtered list
  libcat books --search kafka              Search books
  libcat genre "Bilim Kurgu" --page 2      One page of a genre
  libcat recommend genre Roman             Recommendations for a genre
  libcat login -u ayse                     Sign in
  libcat health                            Service status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.out = cmd.OutOrStdout()
			e.err = cmd.ErrOrStderr()
			return e.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runTUI(cmd, open)
		},
	}

	rootCmd.PersistentFlags().StringVar(&e.cfgFile, "config", "", "config file (default $HOME/.config/libcat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&e.asJSON, "json", false, "print results as JSON")
	rootCmd.Flags().StringVar(&open, "open", "", `screen to open, e.g. "books?search=kafka" or "authors/Franz Kafka"`)

	rootCmd.AddCommand(
		e.tuiCmd(),
		e.booksCmd(),
		e.bookCmd(),
		e.authorsCmd(),
		e.authorCmd(),
		e.genresCmd(),
		e.genreCmd(),
		e.recommendCmd(),
		e.loginCmd(),
		e.registerCmd(),
		e.logoutCmd(),
		e.whoamiCmd(),
		e.passwdCmd(),
		e.tokenCmd(),
		e.healthCmd(),
		e.configCmd(),
	)

	return rootCmd
}

// load reads the configuration and resolves the log level
func (e *env) load() error {
	store, err := config.Load(e.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg, err := store.Config()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if e.verbose {
		level = slog.LevelDebug
	}

	e.store, e.cfg, e.level = store, cfg, level
	return nil
}

// logger returns the logger used outside the TUI
func (e *env) logger() *slog.Logger {
	return logging.New(e.err, e.level)
}

// connect builds the API client and the session store on the persisted credential
func (e *env) connect(logger *slog.Logger) (*api.Client, *session.Store, error) {
	creds, err := session.NewFileCredentials(e.cfg.Server.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}

	client := api.NewClient(api.Options{
		ServerURL: e.cfg.Server.URL,
		APIRoot:   e.cfg.Server.APIRoot,
		Timeout:   e.cfg.Network.Timeout,
		RateLimit: e.cfg.Network.RateLimit,
		RateBurst: e.cfg.Network.RateBurst,
		Tokens:    creds,
		Logger:    logger,
	})
	return client, session.New(client, creds, logger), nil
}

// client builds an API client for commands that need no session
func (e *env) client() (*api.Client, error) {
	client, _, err := e.connect(e.logger())
	return client, err
}

// Printf prints if verbose mode is enabled
func (e *env) Printf(format string, args ...any) {
	if e.verbose {
		fmt.Fprintf(e.out, format, args...)
	}
}

// Errorf prints an error message to stderr
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// Successf prints a success message
func (e *env) Successf(format string, args ...any) {
	fmt.Fprintf(e.out, "✓ "+format+"\n", args...)
}
