package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/result"
)

type landingZoneHandler struct{}

func init() {
	registry.Default.Register(landingZoneHandler{})
}

func (landingZoneHandler) GroupType() diagram.GroupType { return diagram.GroupLandingZone }

func (landingZoneHandler) Apply(g *diagram.ParsedGroup, scope *result.ResourceScope) {
	scope.AddLandingZone(identifierOrLabel(g, "landingZoneId", "name", "id"))
}
