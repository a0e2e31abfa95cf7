package domain

// RepositoryContext is everything a workflow needs to know about one repository.
// It is built by the resolver for a single invocation and never mutated.
type RepositoryContext struct {
	Owner          string
	RepoName       string
	LocalPath      string
	MainBranch     string
	DevelopBranch  string
	DeployBranches []string

	IsDBRepo      bool
	DependsOnDB   bool
	DBPackageName string
}

// DefaultDeployBranch returns the first configured deploy branch, if any.
func (c *RepositoryContext) DefaultDeployBranch() (string, bool) {
	if len(c.DeployBranches) == 0 {
		return "", false
	}
	return c.DeployBranches[0], true
}

// FullName returns owner/repo.
func (c *RepositoryContext) FullName() string {
	return c.Owner + "/" + c.RepoName
}
