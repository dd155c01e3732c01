package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Clawzd/portfolio/internal/projects"
)

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	q := projects.DefaultQuery()
	var sortKey string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List a visitor's projects through the gallery filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.visitorStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			q.Sort = projects.SortKey(sortKey)
			list := projects.Filter(projects.NewRepository(store).List(cmd.Context()), q)

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDATE\tLEVEL\tTAGS")
			for i, p := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", projects.Key(p, i), p.Title, p.Date, p.Level, strings.Join(p.Tags, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&q.Category, "category", q.Category, "recent or upcoming")
	cmd.Flags().StringVarP(&q.Search, "search", "q", "", "case-insensitive text in title or description")
	cmd.Flags().StringSliceVar(&q.Tags, "tag", nil, "keep projects with any of these tags (repeatable)")
	cmd.Flags().StringVar(&q.Level, "level", q.Level, "Beginner, Intermediate, Advanced or all")
	cmd.Flags().StringVar(&sortKey, "sort", string(q.Sort), "date-desc, date-asc, title-asc or title-desc")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
