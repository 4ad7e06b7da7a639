// Package textgen defines the port for the external text-generation
// collaborator used by the classification, planning and synthesis stages.
package textgen

import "context"

// Request is one generation call.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
}

// Generator produces free-form text for a prompt. Implementations must honor
// ctx cancellation; callers treat any error as "use the fallback".
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
