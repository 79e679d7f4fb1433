package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/result"
)

type policyAssignmentHandler struct{}

func init() {
	registry.Default.Register(policyAssignmentHandler{})
}

func (policyAssignmentHandler) GroupType() diagram.GroupType { return diagram.GroupPolicyAssignment }

func (policyAssignmentHandler) Apply(g *diagram.ParsedGroup, scope *result.ResourceScope) {
	p := result.PolicyAssignment{
		PolicyDefinitionID: identifier(g.Metadata, "policyDefinitionId", "policyAssignmentId", "id"),
		DisplayName:        g.Label,
		Scope:              diagram.GetStr(g.Metadata, "scope"),
	}
	if p == (result.PolicyAssignment{}) {
		return
	}
	scope.AddPolicyAssignment(p)
}
