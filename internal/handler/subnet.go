package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/result"
)

type subnetHandler struct{}

func init() {
	registry.Default.Register(subnetHandler{})
}

func (subnetHandler) GroupType() diagram.GroupType { return diagram.GroupSubnet }

// Apply records the subnet by id, falling back to its address prefix and
// then its label.
func (subnetHandler) Apply(g *diagram.ParsedGroup, scope *result.ResourceScope) {
	scope.AddSubnet(identifierOrLabel(g, "subnetId", "name", "addressPrefix", "id"))
}
