package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/n-v-nam/github-quickactions/internal/config"
	"github.com/n-v-nam/github-quickactions/internal/orchestrator"
	"github.com/n-v-nam/github-quickactions/internal/repository"
	"github.com/n-v-nam/github-quickactions/internal/service"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// container holds all the dependencies for the application.
type container struct {
	cfg      *config.Config
	logger   *zap.Logger
	resolver *config.Resolver
	journal  repository.RunJournal
	runner   *orchestrator.Runner
}

// newContainer loads the configuration and wires the adapters into a Runner.
// One GitHub session is shared by every workflow of the process.
func newContainer(opts *globalOptions) (*container, error) {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()
	resolver := config.NewResolver(cfg, fs)
	creds := service.NewCredentialProvider(fs, cfg, logger)
	session := repository.NewGithubSession(creds, repository.WithSessionLogger(logger))
	journal := repository.NewJSONRunJournal(fs, journalDir(cfg), logger)

	runner := orchestrator.NewRunner(
		resolver,
		repository.NewGitOpener(logger),
		repository.NewGithubRepository(session, logger),
		service.NewManifestService(fs),
		service.NewShellService(logger),
		orchestrator.WithJournal(journal),
		orchestrator.WithLogger(logger),
		orchestrator.WithCommands(cfg.Commands),
	)
	return &container{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		journal:  journal,
		runner:   runner,
	}, nil
}

// newLogger builds a console logger on stderr so it never mixes with the
// progress output.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func journalDir(cfg *config.Config) string {
	if filepath.IsAbs(cfg.JournalDir) {
		return cfg.JournalDir
	}
	return filepath.Join(cfg.WorkspaceRoot, cfg.JournalDir)
}
