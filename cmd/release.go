package cmd

import (
	"context"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newReleasePRCmd(a *app) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "release-pr <repo>",
		Short: "Open the release pull request from develop into main",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.PRRef] {
					return c.runner.CreateReleasePR(ctx, orchestrator.CreateReleasePRParams{Common: common, Title: title})
				},
				func(ref domain.PRRef) {
					if ref.URL != "" {
						a.printer.Field("url", ref.URL)
					}
				})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", `PR title (default ":rocket: Release DD/MM")`)
	return cmd
}

func newMergeReleasePRCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge-release-pr <repo>",
		Short: "Rebase-merge the open release pull request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.PRRef] {
					return c.runner.MergeReleasePR(ctx, orchestrator.MergeReleasePRParams{Common: common})
				}, nil)
		},
	}
}

func newBumpVersionCmd(a *app) *cobra.Command {
	var branch string
	cmd := &cobra.Command{
		Use:   "bump-version <repo>",
		Short: "Bump the package.json version, commit and push it",
		Long: `Bump the package.json version on a branch: a patch of 9 rolls over into
the next minor (2.0.9 → 2.1.0), anything else bumps the patch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.VersionData] {
					return c.runner.BumpPackageVersion(ctx, orchestrator.BumpPackageVersionParams{
						Common: common,
						Branch: branch,
					})
				}, nil)
		},
	}
	cmd.Flags().StringVar(&branch, "branch", "", "branch to bump (default the develop branch)")
	return cmd
}

func newPushTagCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "push-tag <repo>",
		Short: "Tag main with v<package.json version> and push the tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.TagData] {
					return c.runner.PushReleaseTag(ctx, orchestrator.PushReleaseTagParams{Common: common})
				}, nil)
		},
	}
}
