package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/result"
)

type networkSecurityGroupHandler struct{}

func init() {
	registry.Default.Register(networkSecurityGroupHandler{})
}

func (networkSecurityGroupHandler) GroupType() diagram.GroupType {
	return diagram.GroupNetworkSecurityGroup
}

func (networkSecurityGroupHandler) Apply(g *diagram.ParsedGroup, scope *result.ResourceScope) {
	scope.AddNetworkSecurityGroup(identifierOrLabel(g, "nsgId", "networkSecurityGroupId", "name", "id"))
}
