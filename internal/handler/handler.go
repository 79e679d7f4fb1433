// Package handler registers the governance scope handlers. Import it for its
// side effects.
package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
)

// identifier returns the first non-blank string among meta's keys.
func identifier(meta map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := diagram.GetStr(meta, k); v != "" {
			return v
		}
	}
	return ""
}

// identifierOrLabel falls back to the group label when metadata names no id.
func identifierOrLabel(g *diagram.ParsedGroup, keys ...string) string {
	if v := identifier(g.Metadata, keys...); v != "" {
		return v
	}
	return g.Label
}
