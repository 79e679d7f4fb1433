package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/result"
)

type subscriptionHandler struct{}

func init() {
	registry.Default.Register(subscriptionHandler{})
}

func (subscriptionHandler) GroupType() diagram.GroupType { return diagram.GroupSubscription }

func (subscriptionHandler) Apply(g *diagram.ParsedGroup, scope *result.ResourceScope) {
	scope.AddSubscription(identifier(g.Metadata, "subscriptionId", "id", "name"))
}
