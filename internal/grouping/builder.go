package grouping

import (
	"errors"
	"log/slog"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/logger"
)

// Options configures Build.
type Options struct {
	Logger *slog.Logger
}

// Resolution is the outcome of group resolution.
type Resolution struct {
	Architecture *diagram.ParsedArchitecture
	// Absorbed lists the connections that became memberships.
	Absorbed []diagram.Connection
}

// Build promotes container services to groups, converts the connections that
// touch a group into membership, and returns the resulting architecture. A
// promoted group keeps the service id, so connections need no rewriting.
func Build(services []diagram.Entity, conns []diagram.Connection, opts Options) *Resolution {
	log := logger.OrNop(opts.Logger)
	detected := Detect(services)

	a := &diagram.ParsedArchitecture{}
	for _, s := range services {
		if _, isGroup := detected[s.EntityID()]; !isGroup {
			a.AddService(s)
		}
	}
	for _, s := range services {
		t, isGroup := detected[s.EntityID()]
		if !isGroup {
			continue
		}
		if a.AddGroup(&diagram.ParsedGroup{
			ID:              s.EntityID(),
			Label:           s.DisplayName(),
			Type:            t,
			SourceServiceID: s.EntityID(),
		}) {
			log.Debug("service promoted to group", "id", s.EntityID(), "groupType", string(t))
		}
	}
	for _, c := range conns {
		if !a.AddConnection(c) {
			log.Debug("connection dropped", "from", c.From, "to", c.To)
		}
	}
	a.Layout = diagram.LayoutFor(len(a.Services))

	absorbed := Absorb(a, log)
	return &Resolution{Architecture: a, Absorbed: absorbed}
}

// Absorb turns connections that touch a group into membership. When both
// ends are groups, the one earlier in containment precedence becomes the
// parent; equal types make the source the parent. When one end is a group,
// the other end joins it. A service already owned by an inner group pulls
// that inner group into the new, outer one instead. Refused memberships
// leave the connection in place. Absorbed pairs are removed in both
// directions and the absorbed connections are returned.
func Absorb(a *diagram.ParsedArchitecture, log *slog.Logger) []diagram.Connection {
	log = logger.OrNop(log)

	var absorbed []diagram.Connection
	pairs := make(map[[2]string]bool)
	for _, c := range append([]diagram.Connection(nil), a.Connections...) {
		from, to := a.Group(c.From), a.Group(c.To)
		var parent, member string
		switch {
		case from != nil && to != nil:
			parent, member = c.From, c.To
			if to.Type.Precedence() < from.Type.Precedence() {
				parent, member = c.To, c.From
			}
		case from != nil:
			parent, member = c.From, c.To
		case to != nil:
			parent, member = c.To, c.From
		default:
			continue
		}

		if err := adopt(a, parent, member); err != nil {
			log.Debug("connection kept", "from", c.From, "to", c.To, "reason", err.Error())
			continue
		}
		pairs[[2]string{c.From, c.To}] = true
		pairs[[2]string{c.To, c.From}] = true
		absorbed = append(absorbed, c)
	}
	if len(absorbed) == 0 {
		return nil
	}

	kept := a.Connections[:0]
	for _, c := range a.Connections {
		if !pairs[[2]string{c.From, c.To}] {
			kept = append(kept, c)
		}
	}
	a.Connections = kept
	a.Prune()
	return absorbed
}

func adopt(a *diagram.ParsedArchitecture, parent, member string) error {
	err := a.AddMember(parent, member)
	if !errors.Is(err, diagram.ErrAlreadyOwned) || a.HasGroup(member) {
		return err
	}
	ownerID, _ := a.Owner(member)
	owner, outer := a.Group(ownerID), a.Group(parent)
	if owner == nil || outer == nil || outer.Type.Precedence() >= owner.Type.Precedence() {
		return err
	}
	if owner.ParentID == parent {
		return nil
	}
	return a.AddMember(parent, ownerID)
}
