// Command orderctl reads and edits the shared order list from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dejobratic/sharedorders/internal/config"
	"github.com/dejobratic/sharedorders/internal/orders/client"
	"github.com/dejobratic/sharedorders/internal/orders/grouping"
	"github.com/dejobratic/sharedorders/internal/orders/orderstore"
	"github.com/dejobratic/sharedorders/internal/telemetry"
)

const dateLayout = "2006-01-02"

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd(cfg, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	cfg    *config.ClientConfig
	out    io.Writer
	errOut io.Writer

	apiURL  string
	timeout time.Duration
}

func rootCmd(cfg *config.ClientConfig, out, errOut io.Writer) *cobra.Command {
	c := &cli{cfg: cfg, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:          "orderctl",
		Short:        "Shared order list client",
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&c.apiURL, "api-url", cfg.BaseURL, "Base URL of the orders API")
	cmd.PersistentFlags().DurationVar(&c.timeout, "timeout", cfg.Timeout, "Timeout for each API call")

	cmd.AddCommand(
		c.listCmd(),
		c.addCmd(),
		c.completeCmd(),
		c.removeCmd(),
		c.suggestionsCmd(),
	)

	return cmd
}

// store builds an Order Store whose notices are logged to stderr.
func (c *cli) store() *orderstore.Store {
	logger := slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{
		Level: telemetry.ParseLevel(c.cfg.LogLevel),
	}))

	return orderstore.New(
		client.New(c.apiURL, client.WithTimeout(c.timeout)),
		orderstore.WithNotifier(orderstore.LogNotifier{Logger: logger}),
		orderstore.WithDefaults(c.cfg.DefaultLocations, c.cfg.DefaultProducts),
	)
}

func (c *cli) listCmd() *cobra.Command {
	var groupBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the list grouped by date or location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := grouping.ParseMode(groupBy)
			if err != nil {
				return err
			}

			store := c.store()
			if err := store.SetGroupBy(mode); err != nil {
				return err
			}
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			printGroups(c.out, store.Groups())
			return nil
		},
	}

	cmd.Flags().StringVar(&groupBy, "group-by", string(grouping.ByDate), "Grouping axis (date or location)")
	return cmd
}

func (c *cli) addCmd() *cobra.Command {
	var (
		date     string
		location string
		product  string
	)

	cmd := &cobra.Command{
		Use:   "add CONTENT",
		Short: "Append an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var orderDate time.Time
			if date != "" {
				parsed, err := time.ParseInLocation(dateLayout, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
				orderDate = parsed
			}

			store := c.store()
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}
			return store.AddOrder(cmd.Context(), args[0], orderDate, location, product)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Order date (YYYY-MM-DD), defaults to now")
	cmd.Flags().StringVar(&location, "location", "", "Delivery location")
	cmd.Flags().StringVar(&product, "product", "", "Product name")
	return cmd
}

func (c *cli) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark an order completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLoaded(cmd.Context(), func(store *orderstore.Store) error {
				return store.CheckOrder(cmd.Context(), args[0])
			})
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an order from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLoaded(cmd.Context(), func(store *orderstore.Store) error {
				return store.RemoveOrder(cmd.Context(), args[0])
			})
		},
	}
}

func (c *cli) suggestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggestions",
		Short: "Print known locations and products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withLoaded(cmd.Context(), func(store *orderstore.Store) error {
				printSuggestions(c.out, store.AvailableLocations(), store.AvailableProducts())
				return nil
			})
		},
	}
}

func (c *cli) withLoaded(ctx context.Context, fn func(*orderstore.Store) error) error {
	store := c.store()
	if err := store.Load(ctx); err != nil {
		return err
	}
	return fn(store)
}
