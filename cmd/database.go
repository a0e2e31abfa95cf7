package cmd

import (
	"context"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newDBPreReleaseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "db-pre-release <repo>",
		Short: "Publish <next>-pre-release of the database package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.VersionData] {
					return c.runner.CreateDBPreRelease(ctx, orchestrator.CreateDBPreReleaseParams{Common: common})
				}, nil)
		},
	}
}

func newDBPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "db-publish <repo>",
		Short: "Publish the database package version from main",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.VersionData] {
					return c.runner.PublishDBOfficial(ctx, orchestrator.PublishDBOfficialParams{Common: common})
				}, nil)
		},
	}
}
