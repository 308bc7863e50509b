package cli

import (
	"errors"

	"github.com/spf13/cobra"

	client "github.com/peteraglen/multicard-go-client"
)

func (a *app) newLoginCommand() *cobra.Command {
	var (
		profile    Profile
		storeID    int64
		noVerify   bool
		setDefault bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials for a profile",
		Long: `Store the application ID and connection settings in the config file and
the secret in the system keyring. The secret is read from a hidden prompt,
or from stdin when it is not a terminal.

The credentials are checked against the API unless --no-verify is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if profile.ApplicationID == "" {
				return errors.New("--application-id is required")
			}
			if cmd.Flags().Changed("store-id") {
				profile.StoreID = &storeID
			}

			secret, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if secret == "" {
				return client.ErrMissingSecret
			}

			name, pf, err := a.profileName()
			if err != nil {
				return err
			}

			if !noVerify {
				if err := a.verify(cmd, profile, secret); err != nil {
					return err
				}
			}

			if err := saveSecret(name, secret); err != nil {
				return err
			}

			pf.Profiles[name] = profile
			if setDefault || pf.Default == "" {
				pf.Default = name
			}
			if err := pf.save(a.configPath); err != nil {
				return err
			}

			cmd.Printf("Logged in as %s (profile %q)\n", profile.ApplicationID, name)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile.ApplicationID, "application-id", "", "Multicard application ID")
	cmd.Flags().StringVar(&profile.BaseURL, "base-url", "", "API base URL (default: "+client.DefaultBaseURL+")")
	cmd.Flags().Int64Var(&storeID, "store-id", 0, "Default store ID")
	cmd.Flags().StringVar(&profile.Timeout, "timeout", "", "Request timeout, e.g. 30s")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Do not check the credentials against the API")
	cmd.Flags().BoolVar(&setDefault, "default", false, "Make this profile the default")

	return cmd
}

func (a *app) verify(cmd *cobra.Command, profile Profile, secret string) error {
	opts, err := profile.configOptions()
	if err != nil {
		return err
	}
	opts = append(opts,
		client.WithSecret(secret),
		client.WithLogger(client.NewSlogLogger(a.logger)),
	)

	c, err := client.New(client.NewConfig(opts...), client.WithUserAgent("multicard-cli/"+client.Version))
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Connect(cmd.Context())
}

func (a *app) newLogoutCommand() *cobra.Command {
	var removeProfile bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored secret of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, pf, err := a.profileName()
			if err != nil {
				return err
			}

			if err := deleteSecret(name); err != nil {
				return err
			}

			if removeProfile {
				delete(pf.Profiles, name)
				if pf.Default == name {
					pf.Default = ""
				}
				if err := pf.save(a.configPath); err != nil {
					return err
				}
			}

			cmd.Printf("Logged out of profile %q\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&removeProfile, "remove-profile", false, "Also remove the profile from the config file")

	return cmd
}

func (a *app) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the profile's credentials are accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Connect(cmd.Context()); err != nil {
				return err
			}

			cmd.Printf("Credentials for %s are valid\n", c.Config().ApplicationID)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("multicard version %s\n", client.Version)
		},
	}
}
