package domain

import "fmt"

// MergeMethod is the strategy used to merge a pull request.
type MergeMethod string

const (
	MergeMethodSquash MergeMethod = "squash"
	MergeMethodMerge  MergeMethod = "merge"
	MergeMethodRebase MergeMethod = "rebase"
)

// Validate rejects methods the review system does not support.
func (m MergeMethod) Validate() error {
	switch m {
	case MergeMethodSquash, MergeMethodMerge, MergeMethodRebase:
		return nil
	default:
		return fmt.Errorf("%w: unsupported merge method %q", ErrInvalidParameters, m)
	}
}

// CIStatus summarizes the check runs of a pull request head.
type CIStatus string

const (
	CIStatusPassing CIStatus = "passing"
	CIStatusFailing CIStatus = "failing"
	CIStatusPending CIStatus = "pending"
)

// PullRequestSummary is a pull request as listed for selection.
type PullRequestSummary struct {
	Number         int      `json:"number"`
	Title          string   `json:"title"`
	Author         string   `json:"author,omitempty"`
	Mergeable      *bool    `json:"mergeable,omitempty"`
	MergeableState string   `json:"mergeableState,omitempty"`
	Rebaseable     bool     `json:"rebaseable"`
	Base           string   `json:"base"`
	Head           string   `json:"head"`
	URL            string   `json:"url"`
	CIStatus       CIStatus `json:"ciStatus,omitempty"`
}

// Mergeability is the merge readiness of a single pull request.
type Mergeability struct {
	Mergeable      bool   `json:"mergeable"`
	MergeableState string `json:"mergeableState"`
	Rebaseable     bool   `json:"rebaseable"`
	State          string `json:"state"`
	Base           string `json:"base"`
	Head           string `json:"head"`
	Title          string `json:"title"`
	URL            string `json:"url"`
}

// IsRebaseable reports whether a mergeable state permits a clean rebase merge.
func IsRebaseable(mergeableState string) bool {
	return mergeableState == "clean" || mergeableState == "behind"
}

// PRCheckOutcome classifies one pull request of a readiness check.
type PRCheckOutcome string

const (
	PRCheckReady     PRCheckOutcome = "ready"
	PRCheckWarning   PRCheckOutcome = "warning"
	PRCheckWrongBase PRCheckOutcome = "wrong-base"
	PRCheckError     PRCheckOutcome = "error"
)

// PRCheckResult is the readiness of one selected pull request.
type PRCheckResult struct {
	Number         int            `json:"number"`
	Outcome        PRCheckOutcome `json:"outcome"`
	Mergeable      bool           `json:"mergeable"`
	MergeableState string         `json:"mergeableState,omitempty"`
	Rebaseable     bool           `json:"rebaseable"`
	Base           string         `json:"base,omitempty"`
	URL            string         `json:"url,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Summary renders the result as a single status line.
func (r PRCheckResult) Summary() string {
	switch r.Outcome {
	case PRCheckReady:
		return fmt.Sprintf("PR #%d: ✅ Ready", r.Number)
	case PRCheckWrongBase:
		return fmt.Sprintf("PR #%d: ❌ targets %s", r.Number, r.Base)
	case PRCheckError:
		return fmt.Sprintf("PR #%d: ❌ %s", r.Number, r.Error)
	default:
		return fmt.Sprintf("PR #%d: ⚠️ %s", r.Number, r.MergeableState)
	}
}

// PRMergeOutcome classifies one pull request of a merge batch.
type PRMergeOutcome string

const (
	PRMerged    PRMergeOutcome = "merged"
	PRSkipped   PRMergeOutcome = "skipped"
	PRPlanned   PRMergeOutcome = "planned"
	PRMergeFail PRMergeOutcome = "failed"
)

// PRMergeResult is the outcome of merging one selected pull request.
type PRMergeResult struct {
	Number      int            `json:"number"`
	Outcome     PRMergeOutcome `json:"outcome"`
	CommitTitle string         `json:"commitTitle,omitempty"`
	Reason      string         `json:"reason,omitempty"`
}
