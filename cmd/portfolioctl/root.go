package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Clawzd/portfolio/internal/config"
	"github.com/Clawzd/portfolio/internal/storage"
)

// Version is set via ldflags at build time.
var Version = "dev"

// openStore connects the configured backend; tests replace it.
var openStore = func(ctx context.Context, cfgFile string) (storage.Store, func() error, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	return storage.Open(ctx, storage.Options{
		Kind:        string(cfg.StorageBackend),
		DBPath:      cfg.DBPath,
		RedisAddr:   cfg.RedisAddr,
		PostgresDSN: cfg.PostgresDSN,
	})
}

type rootOptions struct {
	cfgFile string
	visitor string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Inspect portfolio visitor state",
		Long: `portfolioctl reads and edits the state the portfolio keeps for each
visitor: the project list, contact messages and theme. It talks to the same
storage backend as the server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "portfolio.yaml", "config file path")
	root.PersistentFlags().StringVar(&opts.visitor, "visitor", "", "visitor id (the visitor_id cookie)")

	root.AddCommand(
		newProjectsCmd(opts),
		newMessagesCmd(opts),
		newThemeCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version of portfolioctl",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "portfolioctl %s\n", Version)
			},
		},
	)
	return root
}

// visitorStore opens the backend scoped to --visitor.
func (o *rootOptions) visitorStore(ctx context.Context) (storage.Store, func() error, error) {
	if o.visitor == "" {
		return nil, nil, fmt.Errorf("--visitor is required")
	}
	store, closeFn, err := openStore(ctx, o.cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	return storage.Namespace(store, storage.VisitorPrefix(o.visitor)), closeFn, nil
}
