package domain

import "context"

// Generator is the generative-model contract. Output is untrusted free text;
// callers must parse and validate defensively.
type Generator interface {
	// Generate runs a single-turn completion and returns the raw response text.
	Generate(ctx context.Context, prompt string) (string, error)
	// DescribeImage summarizes an image into text for the resolution pipeline.
	DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error)
}
