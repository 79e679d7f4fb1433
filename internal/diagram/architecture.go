package diagram

import (
	"errors"
)

// Membership errors returned by ParsedArchitecture.AddMember.
var (
	ErrUnknownID     = errors.New("unknown id")
	ErrSelfReference = errors.New("group cannot contain itself")
	ErrAlreadyOwned  = errors.New("member already belongs to another group")
	ErrWouldCycle    = errors.New("nesting would create a cycle")
)

// ParsedArchitecture is the engine's working aggregate: services, the edges
// between them, and the container groups that own them. The zero value is
// ready to use.
type ParsedArchitecture struct {
	Services    []Entity       `json:"services"`
	Connections []Connection   `json:"connections"`
	Groups      []*ParsedGroup `json:"groups"`
	Layout      Layout         `json:"layout"`

	services map[string]int
	groups   map[string]*ParsedGroup
	owner    map[string]string
	edges    map[[2]string]bool
}

// index builds the lookup maps from the exported slices on first use.
func (a *ParsedArchitecture) index() {
	if a.services != nil {
		return
	}
	a.services = make(map[string]int, len(a.Services))
	for i, s := range a.Services {
		if _, dup := a.services[s.EntityID()]; !dup {
			a.services[s.EntityID()] = i
		}
	}
	a.groups = make(map[string]*ParsedGroup, len(a.Groups))
	a.owner = make(map[string]string)
	for _, g := range a.Groups {
		if _, dup := a.groups[g.ID]; !dup {
			a.groups[g.ID] = g
		}
	}
	for _, g := range a.Groups {
		for _, m := range g.Members {
			if _, owned := a.owner[m]; !owned {
				a.owner[m] = g.ID
			}
		}
	}
	a.edges = make(map[[2]string]bool, len(a.Connections))
	for _, c := range a.Connections {
		a.edges[[2]string{c.From, c.To}] = true
	}
}

// Reindex discards the lookup maps so they are rebuilt from the exported
// slices. Call it after editing Services, Groups or Connections directly.
func (a *ParsedArchitecture) Reindex() {
	a.services, a.groups, a.owner, a.edges = nil, nil, nil, nil
}

// AddService appends e unless a service with the same id exists.
func (a *ParsedArchitecture) AddService(e Entity) bool {
	a.index()
	id := e.EntityID()
	if id == "" || a.Has(id) {
		return false
	}
	a.services[id] = len(a.Services)
	a.Services = append(a.Services, e)
	return true
}

// RemoveService drops a service and every reference to it.
func (a *ParsedArchitecture) RemoveService(id string) {
	a.index()
	if _, ok := a.services[id]; !ok {
		return
	}
	kept := a.Services[:0]
	for _, s := range a.Services {
		if s.EntityID() != id {
			kept = append(kept, s)
		}
	}
	a.Services = kept
	if g, ok := a.groups[a.owner[id]]; ok {
		g.Members = without(g.Members, id)
	}
	conns := a.Connections[:0]
	for _, c := range a.Connections {
		if c.From != id && c.To != id {
			conns = append(conns, c)
		}
	}
	a.Connections = conns
	a.Reindex()
}

// Service returns the service with the given id.
func (a *ParsedArchitecture) Service(id string) (Entity, bool) {
	a.index()
	i, ok := a.services[id]
	if !ok {
		return nil, false
	}
	return a.Services[i], true
}

// Group returns the group with the given id, or nil.
func (a *ParsedArchitecture) Group(id string) *ParsedGroup {
	a.index()
	return a.groups[id]
}

// HasService reports whether id names a service.
func (a *ParsedArchitecture) HasService(id string) bool {
	a.index()
	_, ok := a.services[id]
	return ok
}

// HasGroup reports whether id names a group.
func (a *ParsedArchitecture) HasGroup(id string) bool {
	a.index()
	_, ok := a.groups[id]
	return ok
}

// Has reports whether id names a service or a group.
func (a *ParsedArchitecture) Has(id string) bool {
	return a.HasService(id) || a.HasGroup(id)
}

// AddGroup appends g unless the id is taken by a service or group. Members
// and ParentID on g are ignored; use AddMember to populate them.
func (a *ParsedArchitecture) AddGroup(g *ParsedGroup) bool {
	a.index()
	if g == nil || g.ID == "" || a.Has(g.ID) {
		return false
	}
	if g.Type == "" {
		g.Type = GroupDefault
	}
	g.Members = nil
	g.ParentID = ""
	a.groups[g.ID] = g
	a.Groups = append(a.Groups, g)
	return true
}

// AddConnection appends c if both endpoints exist, they differ, and the same
// directed pair is not already present.
func (a *ParsedArchitecture) AddConnection(c Connection) bool {
	a.index()
	if c.From == c.To || !a.Has(c.From) || !a.Has(c.To) {
		return false
	}
	key := [2]string{c.From, c.To}
	if a.edges[key] {
		return false
	}
	a.edges[key] = true
	a.Connections = append(a.Connections, c)
	return true
}

// HasConnection reports whether the directed pair from->to exists.
func (a *ParsedArchitecture) HasConnection(from, to string) bool {
	a.index()
	return a.edges[[2]string{from, to}]
}

// Owner returns the group that lists id as a member.
func (a *ParsedArchitecture) Owner(id string) (string, bool) {
	a.index()
	g, ok := a.owner[id]
	return g, ok
}

// AddMember places member (a service or group id) inside groupID. Adding a
// member to the group that already owns it is a no-op. A group member gets
// its ParentID set; the call is refused if that would make the group its own
// ancestor.
func (a *ParsedArchitecture) AddMember(groupID, member string) error {
	a.index()
	g := a.groups[groupID]
	if g == nil || !a.Has(member) {
		return ErrUnknownID
	}
	if groupID == member {
		return ErrSelfReference
	}
	if owner, ok := a.owner[member]; ok {
		if owner == groupID {
			return nil
		}
		return ErrAlreadyOwned
	}
	if child := a.groups[member]; child != nil {
		if child.ParentID != "" && child.ParentID != groupID {
			return ErrAlreadyOwned
		}
		if a.IsAncestor(member, groupID) {
			return ErrWouldCycle
		}
		child.ParentID = groupID
	}
	g.Members = append(g.Members, member)
	a.owner[member] = groupID
	return nil
}

// IsAncestor reports whether ancestor is reached by walking up from id
// through owners and parents.
func (a *ParsedArchitecture) IsAncestor(ancestor, id string) bool {
	for _, g := range a.Ancestors(id) {
		if g.ID == ancestor {
			return true
		}
	}
	return false
}

// Ancestors returns the chain of groups containing id, innermost first. The
// walk stops at the first repeated group.
func (a *ParsedArchitecture) Ancestors(id string) []*ParsedGroup {
	a.index()
	var chain []*ParsedGroup
	seen := map[string]bool{id: true}
	next, ok := a.owner[id]
	if !ok {
		if g := a.groups[id]; g != nil && g.ParentID != "" {
			next, ok = g.ParentID, true
		}
	}
	for ok && !seen[next] {
		g := a.groups[next]
		if g == nil {
			break
		}
		seen[next] = true
		chain = append(chain, g)
		next, ok = g.ParentID, g.ParentID != ""
	}
	return chain
}

// Children returns the groups nested directly inside id, in group order.
func (a *ParsedArchitecture) Children(id string) []*ParsedGroup {
	var out []*ParsedGroup
	for _, g := range a.Groups {
		if g.ParentID == id && g.ID != id {
			out = append(out, g)
		}
	}
	return out
}

// MemberServices returns the services listed directly in group id, in member
// order.
func (a *ParsedArchitecture) MemberServices(id string) []Entity {
	g := a.Group(id)
	if g == nil {
		return nil
	}
	var out []Entity
	for _, m := range g.Members {
		if s, ok := a.Service(m); ok {
			out = append(out, s)
		}
	}
	return out
}

// Ungrouped returns the services no group owns, in service order.
func (a *ParsedArchitecture) Ungrouped() []Entity {
	a.index()
	var out []Entity
	for _, s := range a.Services {
		if _, owned := a.owner[s.EntityID()]; !owned {
			out = append(out, s)
		}
	}
	return out
}

// Prune restores the structural invariants after free-form edits: member
// lists are deduplicated, unknown or doubly-owned members are dropped, parent
// links agree with membership and contain no cycle, and connections with a
// missing endpoint, a self loop or a duplicate pair are removed.
func (a *ParsedArchitecture) Prune() {
	a.Reindex()
	a.index()

	owner := make(map[string]string)
	for _, g := range a.Groups {
		kept := g.Members[:0]
		for _, m := range g.Members {
			if m == g.ID || !a.Has(m) {
				continue
			}
			if _, taken := owner[m]; taken {
				continue
			}
			owner[m] = g.ID
			kept = append(kept, m)
		}
		g.Members = kept
	}
	for _, g := range a.Groups {
		if p, ok := owner[g.ID]; ok {
			g.ParentID = p
		} else if g.ParentID != "" {
			parent := a.groups[g.ParentID]
			if parent == nil || parent == g {
				g.ParentID = ""
			} else {
				parent.Members = append(parent.Members, g.ID)
				owner[g.ID] = parent.ID
			}
		}
	}
	// break cycles by detaching the first group found on each loop
	for _, g := range a.Groups {
		seen := make(map[string]bool)
		for p := g.ParentID; p != ""; {
			if p == g.ID {
				a.detach(g)
				break
			}
			if seen[p] {
				break
			}
			seen[p] = true
			parent := a.groups[p]
			if parent == nil {
				break
			}
			p = parent.ParentID
		}
	}

	conns := a.Connections[:0]
	seen := make(map[[2]string]bool)
	for _, c := range a.Connections {
		key := [2]string{c.From, c.To}
		if c.From == c.To || !a.Has(c.From) || !a.Has(c.To) || seen[key] {
			continue
		}
		seen[key] = true
		conns = append(conns, c)
	}
	a.Connections = conns
	a.Reindex()
}

func (a *ParsedArchitecture) detach(g *ParsedGroup) {
	if parent := a.groups[g.ParentID]; parent != nil {
		parent.Members = without(parent.Members, g.ID)
	}
	g.ParentID = ""
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, m := range ids {
		if m != id {
			out = append(out, m)
		}
	}
	return out
}
