// Package grouping decides which services are structural containers and turns
// the edges that touch them into membership.
package grouping

import (
	"strings"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/ontology"
)

type rule struct {
	typ      diagram.GroupType
	keywords []string
	exclude  []string
}

// rules are checked in order; the first rule with a keyword and no excluded
// word present wins.
var rules = []rule{
	{typ: diagram.GroupManagementGroup, keywords: []string{"management group"}},
	{typ: diagram.GroupSubscription, keywords: []string{"subscription"}},
	{typ: diagram.GroupRegion, keywords: []string{"region"}},
	{typ: diagram.GroupLandingZone, keywords: []string{"landing zone"}},
	{typ: diagram.GroupResourceGroup, keywords: []string{"resource group"}},
	{typ: diagram.GroupNetworkSecurityGroup, keywords: []string{"network security group", "nsg"}},
	{typ: diagram.GroupSecurityBoundary, keywords: []string{"application security group", "security boundary", "trust boundary"}},
	{typ: diagram.GroupVirtualNetwork, keywords: []string{"virtual network", "vnet"}, exclude: []string{"gateway", "peering"}},
	{typ: diagram.GroupSubnet, keywords: []string{"subnet"}},
	{typ: diagram.GroupCluster, keywords: []string{"service fabric cluster", "cluster"}, exclude: []string{"hdinsight"}},
	{typ: diagram.GroupPolicyAssignment, keywords: []string{"policy assignment", "policy"}, exclude: []string{"firewall", "waf"}},
	{typ: diagram.GroupRoleAssignment, keywords: []string{"role assignment", "rbac"}},
}

// DetectType classifies free text, such as a service title or a group label,
// as a container type.
func DetectType(text string) (diagram.GroupType, bool) {
	s := ontology.Normalize(text)
	if s == "" {
		return "", false
	}
	for _, r := range rules {
		if containsAny(s, r.exclude) {
			continue
		}
		if containsAny(s, r.keywords) {
			return r.typ, true
		}
	}
	return "", false
}

// Detect returns the container type of each service that is one, keyed by
// service id. Titles and ids are checked first. Only when nothing matches
// are categories and descriptions tried.
func Detect(services []diagram.Entity) map[string]diagram.GroupType {
	found := make(map[string]diagram.GroupType)
	for _, s := range services {
		id := strings.TrimPrefix(s.EntityID(), diagram.StubPrefix)
		if t, ok := DetectType(s.DisplayName() + " " + strings.ReplaceAll(id, "-", " ")); ok {
			found[s.EntityID()] = t
		}
	}
	if len(found) > 0 {
		return found
	}
	for _, s := range services {
		rs, ok := s.(diagram.ResolvedService)
		if !ok {
			continue
		}
		if t, ok := DetectType(rs.Category + " " + rs.Description); ok {
			found[s.EntityID()] = t
		}
	}
	return found
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if ontology.ContainsPhrase(s, p) {
			return true
		}
	}
	return false
}
