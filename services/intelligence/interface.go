// File: services/intelligence/interface.go
package intelligence

import (
	"context"

	"serenity/models"
)

// Composer turns a developer-authored instruction plus step context into a
// polished outbound sentence. It never fails: any language-model problem
// degrades to deterministic fallback text, and the returned string is
// always non-empty. The composer has no authority over state transitions.
type Composer interface {
	Compose(ctx context.Context, req models.ComposeRequest) string
}

// LMClient is the narrow language-model contract the composer consumes.
type LMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
