package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/shopsearch/internal/config"
	shopsearch "github.com/kailas-cloud/shopsearch/pkg/sdk"
)

// cli holds the flags and the client shared by subcommands.
type cli struct {
	env     string
	cfgFile string
	timeout time.Duration
	verbose bool

	client *shopsearch.Client
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "shopsearchctl",
		Short: "Query the store catalog through the relevance layer",
		Long: `shopsearchctl runs the same retrieval, scoring and ranking as the API server
and prints the response as JSON. Configuration comes from the server's YAML files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.connect(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&c.env, "env", "e", config.GetEnv(), "config environment (local, dev, prod)")
	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file path (overrides --env)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "overall request timeout")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log operations to stderr")

	root.AddCommand(c.searchCmd(), c.chatCmd(), c.productsCmd())
	return root
}

func (c *cli) connect(stderr io.Writer) error {
	var (
		cfg config.Config
		err error
	)
	if c.cfgFile != "" {
		cfg, err = config.LoadFile(c.cfgFile)
	} else {
		cfg, err = config.Load(c.env)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts := []shopsearch.Option{
		shopsearch.WithCatalog(cfg.Catalog.BaseURL, cfg.Catalog.ConsumerKey, cfg.Catalog.ConsumerSecret),
		shopsearch.WithCatalogStatus(cfg.Catalog.Status),
		shopsearch.WithCatalogTimeout(time.Duration(cfg.Catalog.TimeoutSec) * time.Second),
		shopsearch.WithStopwords(cfg.Search.Stopwords),
		shopsearch.WithWeights(cfg.Search.Weights),
		shopsearch.WithLimits(shopsearch.Limits{
			ChatLimit:           cfg.Search.ChatLimit,
			LegacyLimit:         cfg.Search.LegacyLimit,
			FullQueryPageSize:   cfg.Search.FullQueryPageSize,
			CombinedPageSize:    cfg.Search.CombinedPageSize,
			KeywordPageSize:     cfg.Search.KeywordPageSize,
			KeywordPasses:       cfg.Search.KeywordPasses,
			PassTimeout:         cfg.Search.PassTimeout(),
			MaxConcurrentPasses: cfg.Search.MaxConcurrentPasses,
		}),
	}
	if c.verbose {
		opts = append(opts, shopsearch.WithLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	c.client, err = shopsearch.New(opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (c *cli) searchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Rank products for a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context()
			defer cancel()

			res, err := c.client.Search(ctx, args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of products (1-20, default 8)")
	return cmd
}

func (c *cli) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Answer a conversational product request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context()
			defer cancel()
			return printJSON(cmd.OutOrStdout(), c.client.Chat(ctx, args[0]))
		},
	}
}

func (c *cli) productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products [QUERY]",
		Short: "List minimal product records; no query lists the newest products",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context()
			defer cancel()

			var query string
			if len(args) == 1 {
				query = args[0]
			}
			items, err := c.client.Products(ctx, query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), items)
		},
	}
}

func (c *cli) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

