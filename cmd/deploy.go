package cmd

import (
	"context"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/orchestrator"
	"github.com/spf13/cobra"
)

type deployFlags struct {
	branch    string
	dbVersion string
}

func (f *deployFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.branch, "branch", "", "deploy branch (default the first configured one)")
	cmd.Flags().StringVar(&f.dbVersion, "db-version", "",
		"point the database package at this version before pushing")
}

func (f *deployFlags) dependencyUpdate() orchestrator.DependencyUpdate {
	return orchestrator.DependencyUpdate{
		UpdateDBPackage: f.dbVersion != "",
		NewDBVersion:    f.dbVersion,
	}
}

func newDeployStagingCmd(a *app) *cobra.Command {
	var flags deployFlags
	cmd := &cobra.Command{
		Use:   "deploy-staging <repo>",
		Short: "Rebuild the deploy branch from develop, force push it and deploy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.DeployData] {
					return c.runner.DeployStaging(ctx, orchestrator.DeployStagingParams{
						Common:           common,
						DependencyUpdate: flags.dependencyUpdate(),
						DeployBranch:     flags.branch,
					})
				}, nil)
		},
	}
	flags.register(cmd)
	return cmd
}

func newSyncDeployBranchCmd(a *app) *cobra.Command {
	var flags deployFlags
	cmd := &cobra.Command{
		Use:   "sync-deploy-branch <repo>",
		Short: "Rebase the deploy branch onto main and develop and force push it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.DeployData] {
					return c.runner.SyncDeployBranch(ctx, orchestrator.SyncDeployBranchParams{
						Common:           common,
						DependencyUpdate: flags.dependencyUpdate(),
						DeployBranch:     flags.branch,
					})
				}, nil)
		},
	}
	flags.register(cmd)
	return cmd
}

func newResetDeployBranchesCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset-deploy-branches <repo> [branch...]",
		Short: "Force push main onto deploy branches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branches := args[1:]
			if all {
				c, err := a.container()
				if err != nil {
					return err
				}
				if rc, err := c.resolver.Resolve(args[0]); err == nil {
					branches = rc.DeployBranches
				}
			}
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[domain.BranchData] {
					return c.runner.ResetDeployBranches(ctx, orchestrator.ResetDeployBranchesParams{
						Common:   common,
						Branches: branches,
					})
				}, nil)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "reset every configured deploy branch")
	return cmd
}
