package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/n-v-nam/github-quickactions/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newPRsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prs",
		Short: "List, check and merge feature pull requests into develop",
	}
	cmd.AddCommand(newPRsListCmd(a), newPRsCheckCmd(a), newPRsMergeCmd(a))
	return cmd
}

func newPRsListCmd(a *app) *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "list <repo>",
		Short: "List open pull requests with their CI status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[[]domain.PullRequestSummary] {
					return c.runner.ListOpenPRs(ctx, orchestrator.ListOpenPRsParams{Common: common, Base: base})
				},
				a.printer.PullRequests)
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base branch (default the develop branch)")
	return cmd
}

func newPRsCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <repo> <number...>",
		Short: "Check whether pull requests are ready to merge into develop",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, err := parsePRNumbers(args[1:])
			if err != nil {
				return err
			}
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[[]domain.PRCheckResult] {
					return c.runner.CheckPRs(ctx, orchestrator.CheckPRsParams{Common: common, Numbers: numbers})
				},
				a.printer.CheckResults)
		},
	}
}

func newPRsMergeCmd(a *app) *cobra.Command {
	var titles []string
	cmd := &cobra.Command{
		Use:   "merge <repo> <number...>",
		Short: "Squash-merge pull requests into develop",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, err := parsePRNumbers(args[1:])
			if err != nil {
				return err
			}
			commitTitles, err := parseCommitTitles(titles)
			if err != nil {
				return err
			}
			return runWorkflow(cmd, a, args[0],
				func(ctx context.Context, c *container, common orchestrator.Common) domain.Result[[]domain.PRMergeResult] {
					return c.runner.MergePRs(ctx, orchestrator.MergePRsParams{
						Common:       common,
						Numbers:      numbers,
						CommitTitles: commitTitles,
					})
				},
				a.printer.MergeResults)
		},
	}
	cmd.Flags().StringArrayVar(&titles, "title", nil, `squash commit title per PR, as <number>="<title>"`)
	return cmd
}

func parsePRNumbers(args []string) ([]int, error) {
	numbers := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid pull request number %q", domain.ErrInvalidParameters, arg)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func parseCommitTitles(values []string) (map[int]string, error) {
	titles := make(map[int]string, len(values))
	for _, value := range values {
		key, title, ok := strings.Cut(value, "=")
		if !ok || strings.TrimSpace(title) == "" {
			return nil, fmt.Errorf("%w: commit title must look like <number>=<title>: %q",
				domain.ErrInvalidParameters, value)
		}
		numbers, err := parsePRNumbers([]string{strings.TrimSpace(key)})
		if err != nil {
			return nil, err
		}
		titles[numbers[0]] = strings.TrimSpace(title)
	}
	return titles, nil
}
