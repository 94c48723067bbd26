package llm

import "context"

// Completion is the collaborator's answer to a single prompt.
type Completion struct {
	Text       string
	TokensUsed int64
}

// Completer is the external completion collaborator. It takes one prompt
// string and blocks until the reply and total token usage are available.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}
