package dependency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/azure-architect/archdiagram/internal/diagram"
)

// ErrCycle is returned when group parent links contain a cycle.
var ErrCycle = errors.New("group nesting cycle detected")

// CycleError names the groups that could not be ordered because they sit on
// or below a parent cycle.
type CycleError struct {
	IDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.IDs, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Resolve orders groups so every parent precedes its children and returns:
// - ordered: group IDs parents first, ties in input order
// - tiers: group IDs grouped by depth (tier 0 = roots, tier 1 = their children, etc.)
// Parent ids that name no group in the input are treated as absent.
func Resolve(groups []*diagram.ParsedGroup) (ordered []string, tiers [][]string, err error) {
	if len(groups) == 0 {
		return nil, nil, nil
	}

	present := make(map[string]bool, len(groups))
	for _, g := range groups {
		present[g.ID] = true
	}

	// child depends on parent => inDegree[child] = 1 when it has a known parent
	inDegree := make(map[string]int, len(groups))
	children := make(map[string][]string)
	for _, g := range groups {
		if _, dup := inDegree[g.ID]; dup {
			continue
		}
		inDegree[g.ID] = 0
		if g.ParentID != "" && g.ParentID != g.ID && present[g.ParentID] {
			inDegree[g.ID] = 1
			children[g.ParentID] = append(children[g.ParentID], g.ID)
		}
	}

	var queue []string
	for _, g := range groups {
		if inDegree[g.ID] == 0 && !contains(queue, g.ID) {
			queue = append(queue, g.ID)
		}
	}

	ordered = make([]string, 0, len(inDegree))
	for len(queue) > 0 {
		tier := make([]string, len(queue))
		copy(tier, queue)
		tiers = append(tiers, tier)
		var nextQueue []string
		for _, u := range queue {
			ordered = append(ordered, u)
			for _, v := range children[u] {
				inDegree[v]--
				if inDegree[v] == 0 {
					nextQueue = append(nextQueue, v)
				}
			}
		}
		queue = nextQueue
	}

	if len(ordered) != len(inDegree) {
		done := make(map[string]bool, len(ordered))
		for _, id := range ordered {
			done[id] = true
		}
		cyc := &CycleError{}
		for _, g := range groups {
			if !done[g.ID] && !contains(cyc.IDs, g.ID) {
				cyc.IDs = append(cyc.IDs, g.ID)
			}
		}
		return nil, nil, cyc
	}
	return ordered, tiers, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
