package ports

import "context"

// TokenSource provides the GroupMe access token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Prompter asks the user a question and returns the trimmed answer.
// Cancelling ctx abandons the question and returns ctx.Err().
type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
}
