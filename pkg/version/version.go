package version

// Set at build time with -ldflags "-X github.com/n-v-nam/github-quickactions/pkg/version.Version=..."
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary returns the version with its short commit for --version output.
func Summary() string {
	commit := CommitHash
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return Version + " (" + commit + ")"
}
