package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Clawzd/portfolio/internal/contact"
)

func newMessagesCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Print the contact messages a visitor has sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.visitorStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			list := contact.Messages(cmd.Context(), store)
			out := cmd.OutOrStdout()
			if jsonOutput {
				return json.NewEncoder(out).Encode(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No messages.")
				return nil
			}
			for _, m := range list {
				fmt.Fprintf(out, "%s  %s\n  %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Summary(), m.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
