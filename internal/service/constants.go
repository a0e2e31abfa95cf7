package service

// Credential lookup
const (
	// GithubTokenKey is the variable read from the process environment and .env files
	GithubTokenKey = "GITHUB_TOKEN"
	// DefaultEnvFile is the .env file consulted when none is configured
	DefaultEnvFile = ".env"
)

// Manifest rewrite format
const (
	manifestIndent   = "  "
	manifestFileMode = 0o644
)
