// Package tokensource resolves the GroupMe access token.
package tokensource

import (
	"context"
	"os"
	"strings"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

// EnvVar is the environment variable holding the GroupMe token.
const EnvVar = "GROUPME_TOKEN"

// Source reads the token from the environment and falls back to asking the user.
type Source struct {
	envVar   string
	lookup   func(string) (string, bool)
	prompter ports.Prompter
}

var _ ports.TokenSource = (*Source)(nil)

type Option func(*Source)

// WithPrompter enables asking for the token when the environment has none.
func WithPrompter(p ports.Prompter) Option {
	return func(s *Source) { s.prompter = p }
}

// WithLookup replaces os.LookupEnv (useful for tests).
func WithLookup(fn func(string) (string, bool)) Option {
	return func(s *Source) {
		if fn != nil {
			s.lookup = fn
		}
	}
}

func New(opts ...Option) *Source {
	s := &Source{envVar: EnvVar, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the token from the environment or the prompter. A cancelled
// context is returned as is so callers can tell an abort from a missing token.
func (s *Source) Token(ctx context.Context) (string, error) {
	if v, ok := s.lookup(s.envVar); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	}

	if s.prompter != nil {
		v, err := s.prompter.Ask(ctx, "Enter your GroupMe access token: ")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}

	return "", &domain.OpError{
		Op:   "tokensource.token",
		Kind: domain.KindTokenMissing,
		Err:  domain.ErrTokenMissing,
	}
}
