package handler

import (
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/registry"
	"github.com/azure-architect/archdiagram/internal/result"
)

type roleAssignmentHandler struct{}

func init() {
	registry.Default.Register(roleAssignmentHandler{})
}

func (roleAssignmentHandler) GroupType() diagram.GroupType { return diagram.GroupRoleAssignment }

func (roleAssignmentHandler) Apply(g *diagram.ParsedGroup, scope *result.ResourceScope) {
	r := result.RoleAssignment{
		RoleDefinitionID: identifier(g.Metadata, "roleDefinitionId", "roleId", "id", "name"),
		PrincipalID:      diagram.GetStr(g.Metadata, "principalId"),
		PrincipalType:    diagram.GetStr(g.Metadata, "principalType"),
		DisplayName:      g.Label,
	}
	if r == (result.RoleAssignment{}) {
		return
	}
	scope.AddRoleAssignment(r)
}
