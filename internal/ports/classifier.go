package ports

import "context"

// AggressionClassifier decides whether a message text is aggressive.
type AggressionClassifier interface {
	Name() string
	Classify(ctx context.Context, text string) (bool, error)
}
