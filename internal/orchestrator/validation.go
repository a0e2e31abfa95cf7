package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/n-v-nam/github-quickactions/internal/domain"
)

var (
	// versionRegex matches semantic versions with optional 'v' prefix
	versionRegex = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)
	// branchNameRegex matches valid git branch names
	branchNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)
)

// ValidateVersion validates a semantic version string.
func ValidateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: version cannot be empty", domain.ErrInvalidParameters)
	}
	if !versionRegex.MatchString(version) {
		return fmt.Errorf("%w: invalid version format: %s (expected: 1.2.3 or 1.2.3-pre-release)",
			domain.ErrInvalidParameters, version)
	}
	return nil
}

// ValidateBranchName validates a git branch name.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return fmt.Errorf("%w: branch name cannot be empty", domain.ErrInvalidParameters)
	}
	if len(branch) > maxBranchNameLength {
		return fmt.Errorf("%w: branch name too long: %d characters (max: %d)",
			domain.ErrInvalidParameters, len(branch), maxBranchNameLength)
	}
	if strings.HasPrefix(branch, "/") || strings.HasSuffix(branch, "/") {
		return fmt.Errorf("%w: branch name cannot start or end with slash: %s", domain.ErrInvalidParameters, branch)
	}
	if strings.Contains(branch, "..") {
		return fmt.Errorf("%w: branch name cannot contain consecutive dots: %s", domain.ErrInvalidParameters, branch)
	}
	if strings.HasSuffix(branch, ".lock") {
		return fmt.Errorf("%w: branch name cannot end with .lock: %s", domain.ErrInvalidParameters, branch)
	}
	if strings.HasPrefix(branch, "-") || !branchNameRegex.MatchString(branch) {
		return fmt.Errorf("%w: invalid branch name format: %s", domain.ErrInvalidParameters, branch)
	}
	return nil
}

// ValidateBranchNames validates every branch and rejects an empty list.
func ValidateBranchNames(branches []string) error {
	if len(branches) == 0 {
		return fmt.Errorf("%w: no branches selected", domain.ErrInvalidParameters)
	}
	for _, b := range branches {
		if err := ValidateBranchName(b); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePRNumbers rejects an empty selection and non-positive numbers.
func ValidatePRNumbers(numbers []int) error {
	if len(numbers) == 0 {
		return fmt.Errorf("%w: no pull requests selected", domain.ErrInvalidParameters)
	}
	for _, n := range numbers {
		if n <= 0 {
			return fmt.Errorf("%w: invalid pull request number %d", domain.ErrInvalidParameters, n)
		}
	}
	return nil
}

func requireDBRepo(rc *domain.RepositoryContext) error {
	if !rc.IsDBRepo {
		return fmt.Errorf("%w: %s is not a database repository", domain.ErrInvalidParameters, rc.RepoName)
	}
	return nil
}
