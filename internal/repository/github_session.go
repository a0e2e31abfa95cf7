package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/go-github/v74/github"
	"github.com/n-v-nam/github-quickactions/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// GithubSession is one authenticated GitHub client owned by the caller and
// shared by every adapter it is passed to. It is never invalidated; a new
// token needs a new session.
type GithubSession struct {
	mu      sync.Mutex
	creds   CredentialProvider
	baseURL string
	logger  *zap.Logger

	client *github.Client
	owner  string
}

// SessionOption configures a GithubSession.
type SessionOption func(*GithubSession)

// WithBaseURL points the session at a GitHub Enterprise or test API root.
func WithBaseURL(baseURL string) SessionOption {
	return func(s *GithubSession) {
		s.baseURL = baseURL
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *GithubSession) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewGithubSession creates an uninitialized session.
func NewGithubSession(creds CredentialProvider, opts ...SessionOption) *GithubSession {
	s := &GithubSession{creds: creds, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init authenticates the session. Only the first successful call has an
// effect; later calls return nil without fetching a new token.
func (s *GithubSession) Init(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return nil
	}
	if s.creds == nil {
		return fmt.Errorf("%w: no credential provider configured", domain.ErrRemoteAuth)
	}
	token, err := s.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteAuth, err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty GitHub token", domain.ErrRemoteAuth)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)
	if s.baseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(s.baseURL, "/") + "/")
		if err != nil {
			return fmt.Errorf("invalid GitHub base URL %q: %w", s.baseURL, err)
		}
		client.BaseURL = base
	}
	s.client = client
	s.owner = owner
	s.logger.Info("github session initialized", zap.String("owner", owner))
	return nil
}

// Client returns the authenticated client or ErrUnauthenticated.
func (s *GithubSession) Client() (*github.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.client, nil
}

// Owner returns the owner the session was initialized for.
func (s *GithubSession) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}
