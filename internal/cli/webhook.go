package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/peteraglen/multicard-go-client/webhook"
)

var errInvalidSignature = errors.New("invalid callback signature")

func (a *app) newWebhookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Sign and verify callback payloads",
	}

	var secret string
	cmd.PersistentFlags().StringVar(&secret, "secret", "", "Signing secret (default: $MULTICARD_SECRET or the profile's secret)")

	cmd.AddCommand(a.newWebhookSignCommand(&secret), a.newWebhookVerifyCommand(&secret))

	return cmd
}

// webhookSecret returns the explicit secret, then MULTICARD_SECRET, then the
// profile's keyring entry.
func (a *app) webhookSecret(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv("MULTICARD_SECRET"); env != "" {
		return env, nil
	}
	name, _, err := a.profileName()
	if err != nil {
		return "", err
	}
	return loadSecret(name)
}

func (a *app) newWebhookSignCommand(secret *string) *cobra.Command {
	var cb webhook.Callback

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the signature Multicard sends for a callback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := a.webhookSecret(*secret)
			if err != nil {
				return err
			}
			cmd.Println(webhook.Sign(cb, key))
			return nil
		},
	}

	cmd.Flags().StringVar(&cb.StoreID, "store-id", "", "Store ID")
	cmd.Flags().StringVar(&cb.InvoiceID, "invoice-id", "", "Merchant order ID")
	cmd.Flags().StringVar(&cb.Amount, "amount", "", "Amount as sent in the callback")
	_ = cmd.MarkFlagRequired("store-id")
	_ = cmd.MarkFlagRequired("invoice-id")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func (a *app) newWebhookVerifyCommand(secret *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the signature of a callback body read from --file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				body []byte
				err  error
			)
			if file != "" {
				body, err = os.ReadFile(file)
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read callback: %w", err)
			}

			cb, err := webhook.ParseCallback(body)
			if err != nil {
				return err
			}

			key, err := a.webhookSecret(*secret)
			if err != nil {
				return err
			}

			if !webhook.Verify(*cb, key) {
				return fmt.Errorf("%w for invoice %s", errInvalidSignature, cb.InvoiceID)
			}

			cmd.Printf("Signature valid for invoice %s\n", cb.InvoiceID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File containing the callback JSON")

	return cmd
}
