// Package tools implements the per-stage analysis generators. Each tool
// wraps one prompt against the generative backend and normalizes the
// response into structured data with graceful fallback.
package tools

import (
	"context"

	"github.com/jonathan/cv-insight/internal/normalize"
)

// Context carries per-call generation parameters shared by the tools.
type Context struct {
	TargetRole      string
	DifficultyLevel string
	QuestionCount   int
}

// Generator is the single-method interface every analysis tool satisfies.
// Implementations return a normalized result; a fallback-mode result is a
// valid outcome, an error means the backend call itself failed.
type Generator interface {
	Generate(ctx context.Context, input string, tc Context) (normalize.Result, error)
}
