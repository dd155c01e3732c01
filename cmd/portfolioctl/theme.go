package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Clawzd/portfolio/internal/theme"
)

func newThemeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle a visitor's theme",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, closeFn, err := opts.visitorStore(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()
				fmt.Fprintln(cmd.OutOrStdout(), theme.Load(cmd.Context(), store).Current())
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Flip between dark and light",
			Long: `Flip the stored theme between dark and light.

A running server keeps the theme of visitors it has seen recently in
memory, so the change shows there once their session is swept as idle.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, closeFn, err := opts.visitorStore(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()
				next := theme.Load(cmd.Context(), store).Current().Opposite()
				if err := theme.Save(cmd.Context(), store, next); err != nil {
					return fmt.Errorf("saving theme: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), next)
				return nil
			},
		},
	)
	return cmd
}
