package adapter

import "context"

// TextGenerator is the port for the generative-model collaborator. The
// pipeline only needs one opaque prompt-to-text operation; provider specifics
// (chat framing, token limits, backends) stay behind the adapter.
type TextGenerator interface {
	// Generate returns the model's text for the prompt, or an error on any
	// transient/provider failure. Retrying is the caller's concern.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName reports the configured model, used for metric labels.
	ModelName() string
}
