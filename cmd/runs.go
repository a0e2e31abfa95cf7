package cmd

import (
	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/spf13/cobra"
)

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded workflow runs",
	}
	cmd.AddCommand(newRunsShowCmd(a), newRunsListCmd(a))
	return cmd
}

func newRunsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show the steps of a run (default the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			var record *domain.RunRecord
			if len(args) == 1 {
				record, err = c.journal.Load(cmd.Context(), args[0])
			} else {
				record, err = c.journal.LoadLatest(cmd.Context())
			}
			if err != nil {
				return err
			}
			a.printer.Run(record)
			return nil
		},
	}
}

func newRunsListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			records, err := c.journal.List(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			for _, r := range records {
				a.printer.Line("%s  %-20s %-8s %-9s %s",
					r.StartedAt.Format("2006-01-02 15:04"), r.Workflow, r.Repo, r.Status, r.RunID)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")
	return cmd
}
