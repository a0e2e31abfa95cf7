package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/n-v-nam/github-quickactions/internal/config"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrNoToken is returned when no configured source yields a GitHub token.
var ErrNoToken = errors.New("no GitHub token found")

// CredentialProvider resolves the bearer token used by the GitHub session.
// It satisfies repository.CredentialProvider.
type CredentialProvider struct {
	fs            afero.Fs
	auth          config.AuthConfig
	envToken      string
	workspaceRoot string
	logger        *zap.Logger
}

// NewCredentialProvider builds a provider from the loaded configuration.
// cfg.GithubToken carries GITHUB_TOKEN as bound by viper.
func NewCredentialProvider(fs afero.Fs, cfg *config.Config, logger *zap.Logger) *CredentialProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialProvider{
		fs:            fs,
		auth:          cfg.Auth,
		envToken:      cfg.GithubToken,
		workspaceRoot: cfg.WorkspaceRoot,
		logger:        logger,
	}
}

// Token returns the first token found for the configured method. The env
// method falls back from the process environment to the .env file; auto
// tries manual first.
func (p *CredentialProvider) Token(_ context.Context) (string, error) {
	method := p.auth.Method
	if method == "" {
		method = config.AuthMethodAuto
	}
	switch method {
	case config.AuthMethodManual:
		if token := p.manualToken(); token != "" {
			return token, nil
		}
		return "", fmt.Errorf("%w: set auth.manual_token", ErrNoToken)
	case config.AuthMethodEnv:
		if token := p.environmentToken(); token != "" {
			return token, nil
		}
		return "", fmt.Errorf("%w: set %s or add it to %s", ErrNoToken, GithubTokenKey, p.envFilePath())
	case config.AuthMethodAuto:
		if token := p.manualToken(); token != "" {
			return token, nil
		}
		if token := p.environmentToken(); token != "" {
			return token, nil
		}
		return "", fmt.Errorf("%w: configure auth.manual_token, %s or %s",
			ErrNoToken, GithubTokenKey, p.envFilePath())
	default:
		return "", fmt.Errorf("unsupported auth method %q", method)
	}
}

func (p *CredentialProvider) manualToken() string {
	return strings.TrimSpace(p.auth.ManualToken)
}

func (p *CredentialProvider) environmentToken() string {
	if token := strings.TrimSpace(p.envToken); token != "" {
		return token
	}
	return p.envFileToken()
}

// envFileToken reads GITHUB_TOKEN from the .env file. Read failures are
// logged and treated as no token.
func (p *CredentialProvider) envFileToken() string {
	path := p.envFilePath()
	f, err := p.fs.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn("failed to open env file", zap.String("path", path), zap.Error(err))
		}
		return ""
	}
	defer f.Close()
	values, err := godotenv.Parse(f)
	if err != nil {
		p.logger.Warn("failed to parse env file", zap.String("path", path), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(values[GithubTokenKey])
}

func (p *CredentialProvider) envFilePath() string {
	envFile := p.auth.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if filepath.IsAbs(envFile) || p.workspaceRoot == "" {
		return envFile
	}
	return filepath.Join(p.workspaceRoot, envFile)
}
