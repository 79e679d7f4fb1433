package diagram

import (
	"fmt"
	"strings"
)

// ValidationError represents a single structural invariant violation.
type ValidationError struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"` // error
	NodeID     string `json:"node_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func invalid(id, msg, suggestion string) ValidationError {
	return ValidationError{Type: "structure_error", Severity: "error", NodeID: id, Message: msg, Suggestion: suggestion}
}

// Validate checks the architecture invariants: unique ids, connection
// endpoints that exist, no self loops or duplicate pairs, exclusive
// membership, parent links that agree with membership, and a group forest.
func Validate(a *ParsedArchitecture) []ValidationError {
	if a == nil {
		return []ValidationError{invalid("", "architecture is nil", "")}
	}
	var errs []ValidationError

	ids := make(map[string]string)
	for i, s := range a.Services {
		id := s.EntityID()
		if id == "" {
			errs = append(errs, invalid("", fmt.Sprintf("service at index %d has empty id", i), "Resolve or stub the name first"))
			continue
		}
		if _, dup := ids[id]; dup {
			errs = append(errs, invalid(id, "duplicate id: "+id, "Use unique ids for each service"))
			continue
		}
		ids[id] = "service"
	}
	for i, g := range a.Groups {
		if g.ID == "" {
			errs = append(errs, invalid("", fmt.Sprintf("group at index %d has empty id", i), "Set group.id"))
			continue
		}
		if _, dup := ids[g.ID]; dup {
			errs = append(errs, invalid(g.ID, "duplicate id: "+g.ID, "Use unique ids for services and groups"))
			continue
		}
		ids[g.ID] = "group"
	}

	pairs := make(map[[2]string]bool)
	for i, c := range a.Connections {
		switch {
		case c.From == c.To:
			errs = append(errs, invalid(c.From, fmt.Sprintf("connection %d is a self loop", i), "Drop the connection"))
		case ids[c.From] == "":
			errs = append(errs, invalid(c.From, "connection source not found: "+c.From, "Reference an existing service or group id"))
		case ids[c.To] == "":
			errs = append(errs, invalid(c.To, "connection target not found: "+c.To, "Reference an existing service or group id"))
		case pairs[[2]string{c.From, c.To}]:
			errs = append(errs, invalid(c.From, "duplicate connection "+c.From+" -> "+c.To, "Keep one connection per pair"))
		}
		pairs[[2]string{c.From, c.To}] = true
	}

	owner := make(map[string]string)
	byID := make(map[string]*ParsedGroup)
	for _, g := range a.Groups {
		byID[g.ID] = g
	}
	for _, g := range a.Groups {
		for _, m := range g.Members {
			switch {
			case m == g.ID:
				errs = append(errs, invalid(g.ID, "group lists itself as a member", "Remove the self reference"))
			case ids[m] == "":
				errs = append(errs, invalid(g.ID, "member not found: "+m, "Reference an existing service or group id"))
			case owner[m] != "" && owner[m] != g.ID:
				errs = append(errs, invalid(m, fmt.Sprintf("%s belongs to both %s and %s", m, owner[m], g.ID), "Keep a single owner"))
			case owner[m] == g.ID:
				errs = append(errs, invalid(g.ID, "duplicate member: "+m, "Deduplicate members"))
			default:
				owner[m] = g.ID
			}
		}
	}
	for _, g := range a.Groups {
		if g.ParentID == "" {
			if o := owner[g.ID]; o != "" {
				errs = append(errs, invalid(g.ID, "group is a member of "+o+" but has no parentId", "Set parentId"))
			}
			continue
		}
		if byID[g.ParentID] == nil {
			errs = append(errs, invalid(g.ID, "parent group not found: "+g.ParentID, "Reference an existing group id"))
			continue
		}
		if owner[g.ID] != g.ParentID {
			errs = append(errs, invalid(g.ID, "parentId "+g.ParentID+" does not list the group as a member", "Add the group to its parent's members"))
		}
		if path, cyclic := parentCycle(g, byID); cyclic {
			errs = append(errs, invalid(g.ID, "group parent cycle: "+strings.Join(path, " -> "), "Remove one parent link"))
		}
	}
	return errs
}

func parentCycle(g *ParsedGroup, byID map[string]*ParsedGroup) ([]string, bool) {
	path := []string{g.ID}
	seen := map[string]bool{g.ID: true}
	for p := g.ParentID; p != ""; {
		path = append(path, p)
		if seen[p] {
			return path, true
		}
		seen[p] = true
		parent := byID[p]
		if parent == nil {
			return nil, false
		}
		p = parent.ParentID
	}
	return nil, false
}

// GetStr gets a string property; empty if missing or not a string.
func GetStr(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
