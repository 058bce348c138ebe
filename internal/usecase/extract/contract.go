package extract

import "context"

// Generator runs a single-turn completion against the generative model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
