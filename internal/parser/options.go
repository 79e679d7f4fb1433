package parser

import (
	"log/slog"

	"github.com/azure-architect/archdiagram/internal/layout"
	"github.com/azure-architect/archdiagram/internal/resolver"
)

// Options configures the parser behavior.
type Options struct {
	Logger *slog.Logger
	// Resolver configures name resolution (similarity matcher and threshold).
	Resolver resolver.Options
	// Layout holds the canvas spacing constants.
	Layout layout.Options
	// InferPayloadConnections adds pattern-based connections to payloads that
	// already carry their own. Payloads without connections always get them.
	InferPayloadConnections bool
	// Governance adds the governance summary, per-service scopes and preflight
	// warnings to results that contain groups.
	Governance bool
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		Resolver:   resolver.DefaultOptions(),
		Layout:     layout.DefaultOptions(),
		Governance: true,
	}
}
