package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/result"
)

type virtualNetworkHandler struct{}

func init() {
	registry.Default.Register(virtualNetworkHandler{})
}

func (virtualNetworkHandler) GroupType() diagram.GroupType { return diagram.GroupVirtualNetwork }

func (virtualNetworkHandler) Apply(g *diagram.ParsedGroup, scope *result.ResourceScope) {
	scope.AddVirtualNetwork(identifierOrLabel(g, "vnetId", "virtualNetworkId", "name", "id"))
}
