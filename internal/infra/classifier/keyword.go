// Package classifier provides aggression classifiers: a keyword matcher and
// an OpenAI-backed model classifier.
package classifier

import (
	"context"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

// Keyword flags text containing configured words.
type Keyword struct {
	matcher *domain.KeywordMatcher
}

var _ ports.AggressionClassifier = (*Keyword)(nil)

func NewKeyword(words []string) *Keyword {
	return &Keyword{matcher: domain.NewKeywordMatcher(words)}
}

func (k *Keyword) Name() string { return string(domain.ClassifierKeyword) }

func (k *Keyword) Classify(ctx context.Context, text string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return k.matcher.Match(text), nil
}
