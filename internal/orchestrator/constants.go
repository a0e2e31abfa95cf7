package orchestrator

// Workflow names used in results, progress and the run journal.
const (
	WorkflowCreateReleasePR     = "CreateReleasePR"
	WorkflowCreateDBPreRelease  = "CreateDBPreRelease"
	WorkflowDeployStaging       = "DeployStaging"
	WorkflowMergeReleasePR      = "MergeReleasePR"
	WorkflowBumpPackageVersion  = "BumpPackageVersion"
	WorkflowPublishDBOfficial   = "PublishDBOfficial"
	WorkflowPushReleaseTag      = "PushReleaseTag"
	WorkflowResetDeployBranches = "ResetDeployBranches"
	WorkflowSyncDeployBranch    = "SyncDeployBranch"
	WorkflowCheckPRs            = "CheckPRs"
	WorkflowMergePRs            = "MergePRs"
	WorkflowListOpenPRs         = "ListOpenPRs"
)

// Pull request and commit texts
const (
	// ReleasePRBody is the body of every release pull request
	ReleasePRBody = "Automated release PR"
	// releaseTitleFormat is the default release PR title, completed with DD/MM
	releaseTitleFormat = ":rocket: Release %s"
	releaseDateLayout  = "02/01"
	// bumpCommitFormat is the commit message of a version bump
	bumpCommitFormat = ":bookmark: v%s"
	// dependencyCommitFormat is the commit message of a dependency update
	dependencyCommitFormat = ":bookmark: Update %s %s"
)

// Defaults for the external commands
const (
	DefaultPackageManager      = "yarn"
	DefaultStagingDeployScript = "staging:deploy"
)

const maxBranchNameLength = 255
