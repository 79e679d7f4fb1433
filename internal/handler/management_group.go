package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/result"
)

type managementGroupHandler struct{}

func init() {
	registry.Default.Register(managementGroupHandler{})
}

func (managementGroupHandler) GroupType() diagram.GroupType { return diagram.GroupManagementGroup }

// Apply records the management group only when its metadata names it; a
// bare label is not a deployable scope.
func (managementGroupHandler) Apply(g *diagram.ParsedGroup, scope *result.ResourceScope) {
	scope.AddManagementGroup(identifier(g.Metadata, "managementGroupId", "name", "displayName", "id"))
}
