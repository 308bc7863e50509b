package cli

import (
	"context"

	"github.com/spf13/cobra"

	client "github.com/peteraglen/multicard-go-client"
)

// idCommand builds a subcommand that takes a single ID argument.
func (a *app) idCommand(use, short string, fn func(ctx context.Context, c *client.Client, id string) (*client.Response, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return fn(ctx, c, args[0])
			})
		},
	}
}

func (a *app) newInvoicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Manage invoices",
	}

	cmd.AddCommand(
		a.idCommand("get", "Show an invoice", func(ctx context.Context, c *client.Client, id string) (*client.Response, error) {
			return c.Invoices().Retrieve(ctx, id)
		}),
		a.idCommand("cancel", "Cancel an unpaid invoice", func(ctx context.Context, c *client.Client, id string) (*client.Response, error) {
			return c.Invoices().Cancel(ctx, id)
		}),
		a.newInvoiceCreateCommand(),
	)

	return cmd
}

func (a *app) newInvoiceCreateCommand() *cobra.Command {
	var (
		params  client.CreateInvoiceParams
		storeID int64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice and print its checkout URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("store-id") {
				params.StoreID = &storeID
			}
			return a.call(cmd, func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return c.Invoices().Create(ctx, params)
			})
		},
	}

	f := cmd.Flags()
	f.Int64Var(&params.Amount, "amount", 0, "Amount in tiyin")
	f.StringVar(&params.InvoiceID, "invoice-id", "", "Merchant order ID")
	f.StringVar(&params.CallbackURL, "callback-url", "", "URL that receives the payment callback")
	f.Int64Var(&storeID, "store-id", 0, "Store ID (default: the profile's store)")
	f.StringVar(&params.ReturnURL, "return-url", "", "URL the customer returns to after paying")
	f.StringVar(&params.Description, "description", "", "Invoice description")
	f.Int64Var(&params.Lifetime, "lifetime", 0, "Checkout page lifetime in seconds")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("invoice-id")
	_ = cmd.MarkFlagRequired("callback-url")

	return cmd
}

func (a *app) newPaymentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Inspect and refund payments",
	}

	var amount int64
	refund := a.idCommand("refund", "Refund a payment, fully or with --amount partially", func(ctx context.Context, c *client.Client, id string) (*client.Response, error) {
		if amount > 0 {
			return c.Payments().PartialRefund(ctx, id, amount)
		}
		return c.Payments().Refund(ctx, id)
	})
	refund.Flags().Int64Var(&amount, "amount", 0, "Refund only this amount, in tiyin")

	cmd.AddCommand(
		a.idCommand("get", "Show a payment", func(ctx context.Context, c *client.Client, id string) (*client.Response, error) {
			return c.Payments().Retrieve(ctx, id)
		}),
		refund,
	)

	return cmd
}

func (a *app) newHoldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holds",
		Short: "Inspect and release holds",
	}

	cmd.AddCommand(
		a.idCommand("get", "Show a hold", func(ctx context.Context, c *client.Client, id string) (*client.Response, error) {
			return c.Holds().Retrieve(ctx, id)
		}),
		a.idCommand("cancel", "Release the funds of a hold", func(ctx context.Context, c *client.Client, id string) (*client.Response, error) {
			return c.Holds().Cancel(ctx, id)
		}),
	)

	return cmd
}

func (a *app) newPayoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payouts",
		Short: "Inspect payouts",
	}

	cmd.AddCommand(
		a.idCommand("get", "Show a payout", func(ctx context.Context, c *client.Client, id string) (*client.Response, error) {
			return c.Payouts().Retrieve(ctx, id)
		}),
	)

	return cmd
}

func (a *app) newRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Query payment history and account details",
	}

	cmd.AddCommand(
		a.registryListCommand("payments", "List processed payments", func(ctx context.Context, c *client.Client, filters map[string]string) (*client.Response, error) {
			return c.Registry().Payments(ctx, filters)
		}),
		a.registryListCommand("payouts", "List payouts", func(ctx context.Context, c *client.Client, filters map[string]string) (*client.Response, error) {
			return c.Registry().Payouts(ctx, filters)
		}),
		&cobra.Command{
			Use:   "app-info",
			Short: "Show application details",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.call(cmd, func(ctx context.Context, c *client.Client) (*client.Response, error) {
					return c.Registry().ApplicationInfo(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "merchant",
			Short: "Show merchant banking details",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.call(cmd, func(ctx context.Context, c *client.Client) (*client.Response, error) {
					return c.Registry().MerchantDetails(ctx)
				})
			},
		},
	)

	return cmd
}

func (a *app) registryListCommand(use, short string, fn func(ctx context.Context, c *client.Client, filters map[string]string) (*client.Response, error)) *cobra.Command {
	var from, to, status string
	var extra map[string]string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters := make(map[string]string, len(extra)+3)
			for k, v := range extra {
				filters[k] = v
			}
			if from != "" {
				filters["date_from"] = from
			}
			if to != "" {
				filters["date_to"] = to
			}
			if status != "" {
				filters["status"] = status
			}
			return a.call(cmd, func(ctx context.Context, c *client.Client) (*client.Response, error) {
				return fn(ctx, c, filters)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringToStringVar(&extra, "filter", nil, "Additional filters as key=value")

	return cmd
}
