package cmd

import (
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
	"github.com/spf13/cobra"
)

type repoResolver interface {
	RepoNames() []string
	Resolve(repoName string) (*domain.RepositoryContext, error)
}

func newReposCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List the configured repositories with their resolved branches",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			printRepos(a.printer, c.resolver)
			return nil
		},
	}
}

// printRepos keeps going past repositories that fail to resolve so one bad
// path does not hide the rest.
func printRepos(p *printer, r repoResolver) {
	names := r.RepoNames()
	if len(names) == 0 {
		p.Line("no repositories configured")
		return
	}
	for _, name := range names {
		p.Header(name)
		rc, err := r.Resolve(name)
		if err != nil {
			p.Field("error", err.Error())
			continue
		}
		p.Field("path", rc.LocalPath)
		p.Field("main", rc.MainBranch)
		p.Field("develop", rc.DevelopBranch)
		deploy := "-"
		if len(rc.DeployBranches) > 0 {
			deploy = strings.Join(rc.DeployBranches, ", ")
		}
		p.Field("deploy", deploy)
		if rc.IsDBRepo {
			p.Field("database package", rc.DBPackageName)
		}
	}
}
