package diagram

import (
	"strings"
	"unicode"
)

// GroupType classifies a container group.
type GroupType string

const (
	GroupManagementGroup      GroupType = "managementGroup"
	GroupSubscription         GroupType = "subscription"
	GroupRegion               GroupType = "region"
	GroupLandingZone          GroupType = "landingZone"
	GroupResourceGroup        GroupType = "resourceGroup"
	GroupVirtualNetwork       GroupType = "virtualNetwork"
	GroupSubnet               GroupType = "subnet"
	GroupCluster              GroupType = "cluster"
	GroupNetworkSecurityGroup GroupType = "networkSecurityGroup"
	GroupPolicyAssignment     GroupType = "policyAssignment"
	GroupRoleAssignment       GroupType = "roleAssignment"
	GroupSecurityBoundary     GroupType = "securityBoundary"
	GroupDefault              GroupType = "default"
)

// containment precedence, outermost first
var precedence = []GroupType{
	GroupManagementGroup,
	GroupSubscription,
	GroupRegion,
	GroupLandingZone,
	GroupResourceGroup,
	GroupVirtualNetwork,
	GroupSubnet,
	GroupCluster,
	GroupNetworkSecurityGroup,
	GroupPolicyAssignment,
	GroupRoleAssignment,
	GroupSecurityBoundary,
	GroupDefault,
}

var groupTypeSynonyms = map[string]GroupType{
	"mg":       GroupManagementGroup,
	"sub":      GroupSubscription,
	"lz":       GroupLandingZone,
	"rg":       GroupResourceGroup,
	"vnet":     GroupVirtualNetwork,
	"nsg":      GroupNetworkSecurityGroup,
	"policy":   GroupPolicyAssignment,
	"rbac":     GroupRoleAssignment,
	"boundary": GroupSecurityBoundary,
	"aks":      GroupCluster,
}

// GroupTypes returns every group type in containment precedence order.
func GroupTypes() []GroupType {
	return append([]GroupType(nil), precedence...)
}

// Precedence is the index of t in the containment order; lower contains
// higher. Unknown types sort after GroupDefault.
func (t GroupType) Precedence() int {
	for i, p := range precedence {
		if p == t {
			return i
		}
	}
	return len(precedence)
}

// Valid reports whether t is one of the defined group types.
func (t GroupType) Valid() bool {
	return t.Precedence() < len(precedence)
}

// ParseGroupType accepts a group type in any casing or separator style
// ("landing_zone", "Landing Zone", "landingZone") plus a few short forms.
func ParseGroupType(s string) (GroupType, bool) {
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
	if key == "" {
		return "", false
	}
	for _, t := range precedence {
		if strings.ToLower(string(t)) == key {
			return t, true
		}
	}
	t, ok := groupTypeSynonyms[key]
	return t, ok
}

// Layout is the arrangement used for top-level boxes and ungrouped services.
type Layout string

const (
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
	LayoutGrid       Layout = "grid"
)

// LayoutFor picks the layout for n services: up to 3 in a row, up to 6 in a
// column, a grid beyond that.
func LayoutFor(n int) Layout {
	switch {
	case n <= 3:
		return LayoutHorizontal
	case n <= 6:
		return LayoutVertical
	default:
		return LayoutGrid
	}
}

// Connection is a directed edge: From calls or uses To.
type Connection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// ParsedGroup is a container box. A nested group is listed among its parent's
// Members and points back through ParentID.
type ParsedGroup struct {
	ID              string         `json:"id"`
	Label           string         `json:"label"`
	Type            GroupType      `json:"type"`
	Members         []string       `json:"members"`
	ParentID        string         `json:"parentId,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	SourceServiceID string         `json:"sourceServiceId,omitempty"`
}
