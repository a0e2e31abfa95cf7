package cmd

import (
	"context"
	"errors"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/orchestrator"
	"github.com/n-v-nam/github-quickactions/pkg/version"
	"github.com/spf13/cobra"
)

// ErrWorkflowFailed is returned after a failed workflow result was printed.
var ErrWorkflowFailed = errors.New("workflow failed")

type globalOptions struct {
	configFile string
	dryRun     bool
	logLevel   string
}

// app is the state shared by every command of one process
type app struct {
	opts    globalOptions
	printer *printer
	c       *container
}

// container builds the dependencies on first use so that commands like
// version work without a configuration file.
func (a *app) container() (*container, error) {
	if a.c != nil {
		return a.c, nil
	}
	c, err := newContainer(&a.opts)
	if err != nil {
		return nil, err
	}
	a.c = c
	return c, nil
}

func (a *app) mode() domain.ExecutionMode {
	if a.opts.dryRun {
		return domain.ModeDryRun
	}
	return domain.ModeExecute
}

var rootCmd = &cobra.Command{
	Use:   "quickactions",
	Short: "Release workflows across the repositories of a workspace",
	Long: `quickactions runs the release chores of a multi-repository workspace:
release pull requests, version bumps, tags, database package publishing and
staging deploy branches. Every command supports --dry-run.`,
	Version:       version.Summary(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// InitCommands registers every command on the root command
func InitCommands() error {
	a := &app{printer: newPrinter(rootCmd.OutOrStdout())}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configFile, "config", "", "config file (default .quickactions.yaml in . or $HOME)")
	flags.BoolVar(&a.opts.dryRun, "dry-run", false, "describe the workflow without changing anything")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "diagnostics level: debug, info, warn, error")
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) {
		if a.c != nil {
			_ = a.c.logger.Sync()
		}
	}

	rootCmd.AddCommand(
		newReleasePRCmd(a),
		newMergeReleasePRCmd(a),
		newBumpVersionCmd(a),
		newPushTagCmd(a),
		newDBPreReleaseCmd(a),
		newDBPublishCmd(a),
		newDeployStagingCmd(a),
		newSyncDeployBranchCmd(a),
		newResetDeployBranchesCmd(a),
		newPRsCmd(a),
		newReposCmd(a),
		newRunsCmd(a),
		newVersionCmd(),
	)
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// runWorkflow executes one Runner operation for repo, holding the repository
// lock in execute mode, and prints its result.
func runWorkflow[T any](
	cmd *cobra.Command,
	a *app,
	repo string,
	run func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[T],
	render func(data T),
) error {
	c, err := a.container()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	common := orchestrator.Common{Repo: repo, Mode: a.mode(), OnProgress: a.printer.Progress}
	var res domain.Result[T]
	invoke := func() error {
		res = run(ctx, c, common)
		return nil
	}
	if rc, resolveErr := c.resolver.Resolve(repo); resolveErr == nil && !common.Mode.IsDryRun() {
		err = withRepoLock(ctx, rc.LocalPath, c.logger, invoke)
	} else {
		// resolution failures are reported by the runner itself
		err = invoke()
	}
	if err != nil {
		return err
	}
	if render != nil {
		render(res.Data)
	}
	a.printer.Result(res.Success, res.Message)
	if !res.Success {
		return ErrWorkflowFailed
	}
	return nil
}
