package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	client "github.com/peteraglen/multicard-go-client"
)

// app carries the global flags and the state shared by subcommands.
type app struct {
	configPath string
	profile    string
	jqFilter   string
	logLevel   string
	logFormat  string

	logger *slog.Logger
}

// NewRootCommand creates the root command of the multicard CLI.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "multicard",
		Short: "Command-line client for the Multicard payment API",
		Long: `multicard talks to the Multicard payment API using credentials from a
named profile. Run 'multicard login' once to store the application ID in
~/.config/multicard/config.yaml and the secret in the system keyring.

MULTICARD_* environment variables override profile values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(a.logLevel, a.logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	level := os.Getenv("MULTICARD_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", defaultConfigPath(), "Path to the config file")
	flags.StringVarP(&a.profile, "profile", "p", "", "Profile name (default: $MULTICARD_PROFILE or the file's default)")
	flags.StringVar(&a.jqFilter, "jq", "", "jq expression applied to JSON output")
	flags.StringVar(&a.logLevel, "log-level", level, "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(
		a.newLoginCommand(),
		a.newLogoutCommand(),
		a.newCheckCommand(),
		a.newInvoicesCommand(),
		a.newPaymentsCommand(),
		a.newHoldsCommand(),
		a.newPayoutsCommand(),
		a.newRegistryCommand(),
		a.newWebhookCommand(),
		newVersionCommand(),
	)

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// profileName returns the selected profile name.
func (a *app) profileName() (string, *ProfileFile, error) {
	pf, err := loadProfiles(a.configPath)
	if err != nil {
		return "", nil, err
	}
	return pf.resolveName(a.profile), pf, nil
}

// config builds the client configuration from the profile, the environment
// and the keyring, in increasing precedence for profile and environment.
// The keyring is consulted only when no secret was found elsewhere.
func (a *app) config() (*client.Config, error) {
	name, pf, err := a.profileName()
	if err != nil {
		return nil, err
	}

	opts, err := pf.Profiles[name].configOptions()
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	envOpts, err := client.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	cfg := client.NewConfig(append(opts, envOpts...)...)

	if cfg.Secret == "" {
		secret, err := loadSecret(name)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(client.WithSecret(secret))
	}

	cfg = cfg.Merge(client.WithLogger(client.NewSlogLogger(a.logger)))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}

	return cfg, nil
}

func (a *app) newClient() (*client.Client, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return client.New(cfg, client.WithUserAgent("multicard-cli/"+client.Version))
}

// call runs fn with a fresh client and prints the response body.
func (a *app) call(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) (*client.Response, error)) error {
	c, err := a.newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	resp, err := fn(cmd.Context(), c)
	if err != nil {
		return err
	}

	return writeJSON(cmd.Context(), cmd.OutOrStdout(), a.jqFilter, resp.Body)
}
