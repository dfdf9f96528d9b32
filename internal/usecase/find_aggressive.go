package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

const defaultClassifyWorkers = 4

type FindAggressive struct {
	classifier ports.AggressionClassifier
	workers    int
}

type FindOption func(*FindAggressive)

// WithClassifyWorkers bounds concurrent classifier calls.
func WithClassifyWorkers(n int) FindOption {
	return func(uc *FindAggressive) {
		if n > 0 {
			uc.workers = n
		}
	}
}

func NewFindAggressive(classifier ports.AggressionClassifier, opts ...FindOption) *FindAggressive {
	uc := &FindAggressive{
		classifier: classifier,
		workers:    defaultClassifyWorkers,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute returns the messages with text that the classifier flags, in input order.
func (uc *FindAggressive) Execute(ctx context.Context, msgs []domain.Message) ([]domain.Message, error) {
	verdicts := make([]bool, len(msgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	for i, m := range msgs {
		if m.Text == "" {
			continue
		}
		g.Go(func() error {
			ok, err := uc.classifier.Classify(gctx, m.Text)
			if err != nil {
				return fmt.Errorf("message %s: %w", m.ID, err)
			}
			verdicts[i] = ok
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, &domain.OpError{
			Op:   "usecase.find_aggressive",
			Kind: domain.KindAggressionAnalysis,
			Err:  err,
		}
	}

	flagged := []domain.Message{}
	for i, m := range msgs {
		if verdicts[i] {
			flagged = append(flagged, m)
		}
	}
	return flagged, nil
}
