package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/extract"
	"github.com/azure-architect/archdiagram/internal/grouping"
	"github.com/azure-architect/archdiagram/internal/inference"
	"github.com/azure-architect/archdiagram/internal/ontology"
)

// payloadBuild carries the lookup tables used while turning one payload into
// an architecture.
type payloadBuild struct {
	p  *DiagramParser
	an *Analysis
	a  *diagram.ParsedArchitecture

	byName  map[string]string // normalized service name or title -> id
	byGroup map[string]string // normalized group label or id -> group id
	records []ontology.ServiceRecord
}

// AnalyzePayload builds an architecture from a structured analysis payload.
// Unresolved service names become stubs. Groups, members and parent links
// are taken from the payload when it has groups, and connections touching a
// group stay edges. Otherwise groups are inferred from the services as in
// text mode.
func (p *DiagramParser) AnalyzePayload(pl *extract.Payload) *Analysis {
	an := &Analysis{}
	b := &payloadBuild{
		p:       p,
		an:      an,
		a:       &diagram.ParsedArchitecture{},
		byName:  make(map[string]string),
		byGroup: make(map[string]string),
	}
	if pl == nil {
		an.Architecture = b.a
		b.a.Layout = diagram.LayoutFor(0)
		return an
	}

	for _, name := range extract.ExpandServices(pl.Services) {
		b.service(name)
	}

	conns := b.connections(pl)
	if len(pl.Connections) == 0 && pl.Description != "" {
		conns = append(conns, p.extractor.Connections(pl.Description, b.records)...)
	}
	if len(pl.Connections) == 0 || p.opts.InferPayloadConnections {
		conns = inference.AddLogicalConnections(b.a.Services, conns)
	}

	if len(pl.Groups) == 0 {
		res := grouping.Build(b.a.Services, conns, grouping.Options{Logger: p.log})
		an.Architecture = res.Architecture
		an.Absorbed = res.Absorbed
	} else {
		b.groups(pl.Groups)
		for _, c := range conns {
			if !b.a.AddConnection(c) {
				p.log.Debug("connection dropped", "from", c.From, "to", c.To)
			}
		}
		b.a.Layout = diagram.LayoutFor(len(b.a.Services))
		an.Architecture = b.a
	}

	an.Suggestions = b.suggestions(pl.SuggestedServices)
	p.log.Debug("payload analysed",
		"services", len(an.Architecture.Services),
		"groups", len(an.Architecture.Groups),
		"connections", len(an.Architecture.Connections),
		"stubs", len(an.Unresolved))
	return an
}

// service resolves name, adding the record or a stub to the architecture,
// and returns its id. The empty string means name had nothing usable.
func (b *payloadBuild) service(name string) string {
	key := ontology.Normalize(name)
	if key == "" {
		return ""
	}
	if id, ok := b.byName[key]; ok {
		return id
	}
	var e diagram.Entity
	if rec, ok := b.p.resolver.Resolve(name); ok {
		e = diagram.ResolvedService{ServiceRecord: rec}
		if b.a.AddService(e) {
			b.records = append(b.records, rec)
		}
		b.byName[ontology.Normalize(rec.Title)] = rec.ID
	} else {
		stub, ok := diagram.NewStub(name)
		if !ok {
			return ""
		}
		e = stub
		if b.a.AddService(stub) {
			b.an.Unresolved = append(b.an.Unresolved, name)
			b.an.warn("unresolved_service", stub.ID,
				fmt.Sprintf("%q did not match a known service and is shown as a placeholder", name),
				"Check the service name or add an alias for it")
		}
	}
	b.byName[key] = e.EntityID()
	return e.EntityID()
}

// lookup finds an existing service or group for name without adding one.
func (b *payloadBuild) lookup(name string) (string, bool) {
	key := ontology.Normalize(name)
	if key == "" {
		return "", false
	}
	if id, ok := b.byName[key]; ok {
		return id, true
	}
	if id, ok := b.byGroup[key]; ok {
		return id, true
	}
	if rec, ok := b.p.resolver.Resolve(name); ok && b.a.Has(rec.ID) {
		return rec.ID, true
	}
	return "", false
}

// connections maps payload connections onto known ids. A connection whose
// endpoint is unknown is dropped with a warning.
func (b *payloadBuild) connections(pl *extract.Payload) []diagram.Connection {
	var out []diagram.Connection
	for _, l := range pl.Connections {
		from, okFrom := b.lookupOrGroupName(l.From, pl.Groups)
		to, okTo := b.lookupOrGroupName(l.To, pl.Groups)
		if !okFrom || !okTo {
			b.an.warn("dropped_connection", "",
				fmt.Sprintf("connection %q -> %q has an unknown endpoint", l.From, l.To),
				"List both endpoints in services")
			continue
		}
		if from == to {
			continue
		}
		out = append(out, diagram.Connection{From: from, To: to, Label: l.Label})
	}
	return out
}

// lookupOrGroupName is lookup that also recognizes payload group labels and
// ids before the groups themselves are built.
func (b *payloadBuild) lookupOrGroupName(name string, groups []extract.PayloadGroup) (string, bool) {
	if id, ok := b.lookup(name); ok {
		return id, true
	}
	key := ontology.Normalize(name)
	for i, g := range groups {
		if key != "" && (ontology.Normalize(g.ID) == key || ontology.Normalize(g.Label) == key) {
			return groupID(g, i), true
		}
	}
	return "", false
}

// groups adds the payload groups, then their members, then parent hints.
// Memberships and parents that would break the forest are skipped with a
// warning.
func (b *payloadBuild) groups(pgs []extract.PayloadGroup) {
	added := make([]*diagram.ParsedGroup, len(pgs))
	for i, pg := range pgs {
		g := &diagram.ParsedGroup{
			ID:       groupID(pg, i),
			Label:    pg.Label,
			Type:     groupType(pg),
			Metadata: pg.Metadata,
		}
		if g.Label == "" {
			g.Label = ontology.TitleCase(g.ID)
		}
		if !b.a.AddGroup(g) {
			b.an.warn("duplicate_group", g.ID,
				fmt.Sprintf("group %q is declared more than once or clashes with a service id", g.ID),
				"Give each group a unique id")
			continue
		}
		added[i] = g
		b.byGroup[ontology.Normalize(g.ID)] = g.ID
		if l := ontology.Normalize(g.Label); l != "" {
			if _, taken := b.byGroup[l]; !taken {
				b.byGroup[l] = g.ID
			}
		}
	}

	for i, pg := range pgs {
		g := added[i]
		if g == nil {
			continue
		}
		for _, m := range pg.Members {
			id := b.member(m)
			if id == "" {
				continue
			}
			if err := b.a.AddMember(g.ID, id); err != nil {
				b.refused(g.ID, id, err)
			}
		}
	}

	for i, pg := range pgs {
		g := added[i]
		if g == nil || pg.ParentID == "" {
			continue
		}
		parent, ok := b.byGroup[ontology.Normalize(pg.ParentID)]
		if !ok {
			b.an.warn("unknown_parent", g.ID,
				fmt.Sprintf("group %q names unknown parent %q", g.ID, pg.ParentID),
				"Use the id of a declared group")
			continue
		}
		if err := b.a.AddMember(parent, g.ID); err != nil {
			b.refused(parent, g.ID, err)
		}
	}
}

// member resolves a group member: a known service, then another group, then
// the resolver, then a stub.
func (b *payloadBuild) member(name string) string {
	key := ontology.Normalize(name)
	if id, ok := b.byName[key]; ok {
		return id
	}
	if id, ok := b.byGroup[key]; ok {
		return id
	}
	return b.service(name)
}

func (b *payloadBuild) refused(groupID, member string, err error) {
	msg := fmt.Sprintf("%s was not placed in %s", member, groupID)
	switch {
	case errors.Is(err, diagram.ErrWouldCycle), errors.Is(err, diagram.ErrSelfReference):
		msg += ": nesting would create a cycle"
	case errors.Is(err, diagram.ErrAlreadyOwned):
		msg += ": it already belongs to another group"
	}
	b.p.log.Debug("membership refused", "group", groupID, "member", member, "reason", err.Error())
	b.an.warn("group_hint_ignored", member, msg, "Give each service and group a single parent")
}

// suggestions resolves suggested names to titles, skipping services already
// in the diagram.
func (b *payloadBuild) suggestions(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range names {
		title := ontology.TitleCase(n)
		if rec, ok := b.p.resolver.Resolve(n); ok {
			if b.a.Has(rec.ID) {
				continue
			}
			title = rec.Title
		}
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		out = append(out, title)
	}
	return out
}

func groupID(pg extract.PayloadGroup, i int) string {
	if pg.ID != "" {
		return pg.ID
	}
	if s := ontology.Slug(pg.Label); s != "" {
		return "group-" + s
	}
	return "group-" + strconv.Itoa(i+1)
}

func groupType(pg extract.PayloadGroup) diagram.GroupType {
	if t, ok := diagram.ParseGroupType(pg.GroupType); ok {
		return t
	}
	if t, ok := grouping.DetectType(pg.Label); ok {
		return t
	}
	return diagram.GroupDefault
}
