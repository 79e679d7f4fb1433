package parser

import (
	"sort"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/result"
)

// preflight lists the group types a governed landing zone is expected to
// have, with the warning reported when none is present.
var preflight = []struct {
	t   diagram.GroupType
	msg string
}{
	{diagram.GroupManagementGroup, "No management group defined: deployments will lack a governance root scope."},
	{diagram.GroupSubscription, "No subscription defined: resources may not have an explicit deployment scope."},
	{diagram.GroupLandingZone, "No landing zone container detected: consider grouping workload resources into landing zones."},
	{diagram.GroupVirtualNetwork, "No virtual network defined: landing zones typically include hub/spoke networking."},
}

// governance summarizes the governance groups of a, works out the scope each
// service inherits from its enclosing groups and reports missing scopes.
func (p *DiagramParser) governance(a *diagram.ParsedArchitecture) (*result.Governance, []result.Warning) {
	gov := &result.Governance{}
	present := make(map[diagram.GroupType]bool)

	for _, g := range a.Groups {
		present[g.Type] = true
		var children []string
		for _, c := range a.Children(g.ID) {
			children = append(children, c.ID)
		}
		sort.Strings(children)
		gov.Summary.Add(g.Type, result.GovernanceEntry{
			ID:             g.ID,
			Label:          g.Label,
			Metadata:       g.Metadata,
			ParentID:       g.ParentID,
			ChildGroups:    children,
			MemberServices: descendantServices(a, g.ID),
		})
	}

	for _, s := range a.Services {
		var scope result.ResourceScope
		chain := a.Ancestors(s.EntityID())
		// outermost first so scopes read from root to leaf
		for i := len(chain) - 1; i >= 0; i-- {
			if h, ok := p.reg.Get(chain[i].Type); ok {
				h.Apply(chain[i], &scope)
			}
		}
		if scope.Empty() {
			continue
		}
		if gov.ResourceScopes == nil {
			gov.ResourceScopes = make(map[string]*result.ResourceScope)
		}
		gov.ResourceScopes[s.EntityID()] = &scope
	}

	var warns []result.Warning
	for _, pf := range preflight {
		if !present[pf.t] {
			warns = append(warns, result.Warning{
				Type:     "governance_preflight",
				Severity: "info",
				Message:  pf.msg,
			})
		}
	}
	return gov, warns
}

// descendantServices returns the ids of every service inside group id,
// directly or through nested groups.
func descendantServices(a *diagram.ParsedArchitecture, id string) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(string)
	walk = func(gid string) {
		if seen[gid] {
			return
		}
		seen[gid] = true
		g := a.Group(gid)
		if g == nil {
			return
		}
		for _, m := range g.Members {
			if a.HasService(m) {
				out = append(out, m)
			} else if a.HasGroup(m) {
				walk(m)
			}
		}
	}
	walk(id)
	return out
}
