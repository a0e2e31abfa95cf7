package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Auth methods understood by the credential provider.
const (
	AuthMethodAuto   = "auto"
	AuthMethodManual = "manual"
	AuthMethodEnv    = "env"
)

// DefaultBucket is the default_branches entry used when a repository has none.
const DefaultBucket = "default"

type Config struct {
	DefaultOwner    string                  `mapstructure:"default_owner"`
	WorkspaceRoot   string                  `mapstructure:"workspace_root"`
	GithubToken     string                  `mapstructure:"github_token"`
	Repos           map[string]RepoConfig   `mapstructure:"repos"`
	DefaultBranches map[string]BranchConfig `mapstructure:"default_branches"`
	Auth            AuthConfig              `mapstructure:"auth"`
	Commands        CommandsConfig          `mapstructure:"commands"`
	JournalDir      string                  `mapstructure:"journal_dir"`
	LogLevel        string                  `mapstructure:"log_level"`
}

// RepoConfig describes one managed repository.
type RepoConfig struct {
	Path           string   `mapstructure:"path"`
	IsDBRepo       bool     `mapstructure:"is_db_repo"`
	DependsOnDB    bool     `mapstructure:"depends_on_db"`
	DBPackageName  string   `mapstructure:"db_package_name"`
	DeployBranches []string `mapstructure:"deploy_branches"`
}

// BranchConfig holds branch naming for a repository or for the default bucket.
type BranchConfig struct {
	Main           string   `mapstructure:"main"`
	Develop        string   `mapstructure:"develop"`
	DeployBranches []string `mapstructure:"deploy_branches"`
}

type AuthConfig struct {
	Method      string `mapstructure:"method"`
	ManualToken string `mapstructure:"manual_token"`
	EnvFile     string `mapstructure:"env_file"`
}

// CommandsConfig names the external commands run by the workflows.
type CommandsConfig struct {
	PackageManager      string `mapstructure:"package_manager"`
	StagingDeployScript string `mapstructure:"staging_deploy_script"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultOwner: "tomemiru",
		Repos:        map[string]RepoConfig{},
		DefaultBranches: map[string]BranchConfig{
			DefaultBucket: {Main: "main", Develop: "develop"},
		},
		Auth: AuthConfig{
			Method:  AuthMethodAuto,
			EnvFile: ".env",
		},
		Commands: CommandsConfig{
			PackageManager:      "yarn",
			StagingDeployScript: "staging:deploy",
		},
		JournalDir: ".quickactions/runs",
		LogLevel:   "warn",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := ValidateGitHubOwner(c.DefaultOwner); err != nil {
		return fmt.Errorf("invalid default_owner: %w", err)
	}
	switch c.Auth.Method {
	case AuthMethodAuto, AuthMethodEnv:
	case AuthMethodManual:
		if c.Auth.ManualToken == "" {
			return fmt.Errorf("auth.manual_token is required when auth.method is %q", AuthMethodManual)
		}
	default:
		return fmt.Errorf("unknown auth.method %q", c.Auth.Method)
	}
	if c.Auth.ManualToken != "" {
		if err := ValidateGitHubToken(c.Auth.ManualToken); err != nil {
			return fmt.Errorf("invalid auth.manual_token: %w", err)
		}
	}
	for name := range c.Repos {
		if err := ValidateGitHubOwnerRepo(c.DefaultOwner, name); err != nil {
			return fmt.Errorf("invalid repos entry: %w", err)
		}
	}
	if c.Commands.PackageManager == "" {
		return fmt.Errorf("commands.package_manager cannot be empty")
	}
	if c.JournalDir == "" {
		return fmt.Errorf("journal_dir cannot be empty")
	}
	return nil
}

var (
	classicPAT     = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	prefixedPAT    = regexp.MustCompile(`^ghp_[a-zA-Z0-9]{36}$`)
	fineGrainedPAT = regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken       = regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken     = regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	validName      = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
)

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	for _, re := range []*regexp.Regexp{classicPAT, prefixedPAT, fineGrainedPAT, appToken, oauthToken} {
		if re.MatchString(token) {
			return nil
		}
	}
	return fmt.Errorf("invalid token format")
}

// ValidateGitHubOwner validates a GitHub user or organization name
func ValidateGitHubOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if err := ValidateGitHubOwner(owner); err != nil {
		return err
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// LoadConfig reads .quickactions.yaml from the working directory or $HOME,
// or from configFile when set, and overlays environment variables.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".quickactions")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	// Configure environment variables
	v.SetEnvPrefix("QUICKACTIONS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// BindEnv checks the listed variables in order
	if err := v.BindEnv("github_token", "GITHUB_TOKEN", "QUICKACTIONS_GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := v.BindEnv("default_owner", "QUICKACTIONS_DEFAULT_OWNER", "GITHUB_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind default_owner env: %w", err)
	}
	if err := v.BindEnv("workspace_root", "QUICKACTIONS_WORKSPACE_ROOT"); err != nil {
		return nil, fmt.Errorf("failed to bind workspace_root env: %w", err)
	}
	if err := v.BindEnv("log_level", "QUICKACTIONS_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log_level env: %w", err)
	}
	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("default_owner", defaults.DefaultOwner)
	v.SetDefault("default_branches", map[string]any{
		DefaultBucket: map[string]any{"main": "main", "develop": "develop"},
	})
	v.SetDefault("auth.method", defaults.Auth.Method)
	v.SetDefault("auth.env_file", defaults.Auth.EnvFile)
	v.SetDefault("commands.package_manager", defaults.Commands.PackageManager)
	v.SetDefault("commands.staging_deploy_script", defaults.Commands.StagingDeployScript)
	v.SetDefault("journal_dir", defaults.JournalDir)
	v.SetDefault("log_level", defaults.LogLevel)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if config.Repos == nil {
		config.Repos = map[string]RepoConfig{}
	}
	if config.WorkspaceRoot == "" {
		root, err := defaultWorkspaceRoot(v.ConfigFileUsed())
		if err != nil {
			return nil, err
		}
		config.WorkspaceRoot = root
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// defaultWorkspaceRoot is the directory of the loaded config file, else the
// working directory.
func defaultWorkspaceRoot(configFile string) (string, error) {
	if configFile != "" {
		abs, err := filepath.Abs(configFile)
		if err != nil {
			return "", fmt.Errorf("failed to resolve config path: %w", err)
		}
		return filepath.Dir(abs), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
