package result

import (
	"sort"

	"github.com/azure-architect/archdiagram/internal/diagram"
)

// Error represents a failure that prevented a diagram from being produced.
type Error struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	NodeID     string `json:"node_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning represents a degradation: something dropped, ignored or missing.
type Warning struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	NodeID     string `json:"node_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// DiagramResult is the output of one parse: positioned nodes and edges ready
// for the canvas, plus anything the caller may want to surface.
type DiagramResult struct {
	Success     bool           `json:"success"`
	Nodes       []diagram.Node `json:"nodes"`
	Edges       []diagram.Edge `json:"edges"`
	Layout      diagram.Layout `json:"layout"`
	Warnings    []Warning      `json:"warnings,omitempty"`
	Errors      []Error        `json:"errors,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Governance  *Governance    `json:"governance,omitempty"`
}

// PolicyAssignment is a policy in effect at some scope.
type PolicyAssignment struct {
	PolicyDefinitionID string `json:"policyDefinitionId,omitempty"`
	DisplayName        string `json:"displayName,omitempty"`
	Scope              string `json:"scope,omitempty"`
}

// RoleAssignment grants a role to a principal.
type RoleAssignment struct {
	RoleDefinitionID string `json:"roleDefinitionId,omitempty"`
	PrincipalID      string `json:"principalId,omitempty"`
	PrincipalType    string `json:"principalType,omitempty"`
	DisplayName      string `json:"displayName,omitempty"`
}

// ResourceScope is the governance context inherited by one service from the
// groups around it.
type ResourceScope struct {
	ManagementGroups      []string           `json:"managementGroups,omitempty"`
	Subscriptions         []string           `json:"subscriptions,omitempty"`
	LandingZones          []string           `json:"landingZones,omitempty"`
	VirtualNetworks       []string           `json:"virtualNetworks,omitempty"`
	Subnets               []string           `json:"subnets,omitempty"`
	NetworkSecurityGroups []string           `json:"networkSecurityGroups,omitempty"`
	PolicyAssignments     []PolicyAssignment `json:"policyAssignments,omitempty"`
	RoleAssignments       []RoleAssignment   `json:"roleAssignments,omitempty"`
}

// AddManagementGroup records id once.
func (s *ResourceScope) AddManagementGroup(id string) {
	s.ManagementGroups = appendOnce(s.ManagementGroups, id)
}

// AddSubscription records id once.
func (s *ResourceScope) AddSubscription(id string) {
	s.Subscriptions = appendOnce(s.Subscriptions, id)
}

// AddLandingZone records id once.
func (s *ResourceScope) AddLandingZone(id string) {
	s.LandingZones = appendOnce(s.LandingZones, id)
}

// AddVirtualNetwork records id once.
func (s *ResourceScope) AddVirtualNetwork(id string) {
	s.VirtualNetworks = appendOnce(s.VirtualNetworks, id)
}

// AddSubnet records id once.
func (s *ResourceScope) AddSubnet(id string) {
	s.Subnets = appendOnce(s.Subnets, id)
}

// AddNetworkSecurityGroup records id once.
func (s *ResourceScope) AddNetworkSecurityGroup(id string) {
	s.NetworkSecurityGroups = appendOnce(s.NetworkSecurityGroups, id)
}

// AddPolicyAssignment records p unless an equal assignment is present.
func (s *ResourceScope) AddPolicyAssignment(p PolicyAssignment) {
	for _, have := range s.PolicyAssignments {
		if have == p {
			return
		}
	}
	s.PolicyAssignments = append(s.PolicyAssignments, p)
}

// AddRoleAssignment records r unless an equal assignment is present.
func (s *ResourceScope) AddRoleAssignment(r RoleAssignment) {
	for _, have := range s.RoleAssignments {
		if have == r {
			return
		}
	}
	s.RoleAssignments = append(s.RoleAssignments, r)
}

// Empty reports whether nothing was recorded.
func (s *ResourceScope) Empty() bool {
	return len(s.ManagementGroups) == 0 && len(s.Subscriptions) == 0 && len(s.LandingZones) == 0 &&
		len(s.VirtualNetworks) == 0 && len(s.Subnets) == 0 && len(s.NetworkSecurityGroups) == 0 &&
		len(s.PolicyAssignments) == 0 && len(s.RoleAssignments) == 0
}

func appendOnce(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}

// GovernanceEntry describes one governance group.
type GovernanceEntry struct {
	ID             string         `json:"id"`
	Label          string         `json:"label"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ParentID       string         `json:"parentId,omitempty"`
	ChildGroups    []string       `json:"childGroups,omitempty"`
	MemberServices []string       `json:"memberServices,omitempty"`
}

// GovernanceSummary lists the governance groups by type.
type GovernanceSummary struct {
	ManagementGroups  []GovernanceEntry `json:"managementGroups,omitempty"`
	Subscriptions     []GovernanceEntry `json:"subscriptions,omitempty"`
	LandingZones      []GovernanceEntry `json:"landingZones,omitempty"`
	PolicyAssignments []GovernanceEntry `json:"policyAssignments,omitempty"`
	RoleAssignments   []GovernanceEntry `json:"roleAssignments,omitempty"`
	VirtualNetworks   []GovernanceEntry `json:"virtualNetworks,omitempty"`
}

// Add files e under the list for t. Other group types are ignored.
func (s *GovernanceSummary) Add(t diagram.GroupType, e GovernanceEntry) {
	sort.Strings(e.MemberServices)
	switch t {
	case diagram.GroupManagementGroup:
		s.ManagementGroups = append(s.ManagementGroups, e)
	case diagram.GroupSubscription:
		s.Subscriptions = append(s.Subscriptions, e)
	case diagram.GroupLandingZone:
		s.LandingZones = append(s.LandingZones, e)
	case diagram.GroupPolicyAssignment:
		s.PolicyAssignments = append(s.PolicyAssignments, e)
	case diagram.GroupRoleAssignment:
		s.RoleAssignments = append(s.RoleAssignments, e)
	case diagram.GroupVirtualNetwork:
		s.VirtualNetworks = append(s.VirtualNetworks, e)
	}
}

// Governance is the governance view of a diagram.
type Governance struct {
	Summary GovernanceSummary `json:"summary"`
	// ResourceScopes maps service ids to their inherited scope.
	ResourceScopes map[string]*ResourceScope `json:"resourceScopes,omitempty"`
}
