// Package layout positions services and group boxes on the canvas. Group
// boxes are measured bottom-up and placed top-down; nested nodes use
// coordinates relative to their parent box.
package layout

import (
	"errors"
	"log/slog"
	"math"

	"github.com/azure-architect/archdiagram/internal/dependency"
	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/logger"
)

// Engine lays out a ParsedArchitecture. Its output depends only on the
// architecture and the options.
type Engine struct {
	opts Options
	log  *slog.Logger
}

// New returns an engine using opts.
func New(opts Options) *Engine {
	if opts.MaxColumns <= 0 {
		opts.MaxColumns = 1
	}
	return &Engine{opts: opts, log: logger.OrNop(opts.Logger)}
}

// box is one group in the layout arena.
type box struct {
	group    *diagram.ParsedGroup
	services []diagram.Entity
	children []*box

	cols       int
	svcW, svcH float64
	w, h       float64
}

// Generate returns the positioned nodes and the edges of a.
func (e *Engine) Generate(a *diagram.ParsedArchitecture) ([]diagram.Node, []diagram.Edge) {
	return e.GenerateNodes(a), e.GenerateEdges(a)
}

// GenerateNodes positions every group and service. Groups are emitted parent
// first, each followed by its services and nested groups. Services no group
// owns are placed below the grouped region, or from the origin when there
// are no groups.
func (e *Engine) GenerateNodes(a *diagram.ParsedArchitecture) []diagram.Node {
	if a == nil {
		return nil
	}
	o := e.opts
	var nodes []diagram.Node
	placed := make(map[string]bool)

	roots := e.forest(a)
	bottom := o.OriginY
	for i, pos := range e.placeRoots(roots, a.Layout) {
		nodes = e.emit(nodes, roots[i], pos, "", placed)
		bottom = max(bottom, pos.Y+roots[i].h)
	}

	var loose []diagram.Entity
	for _, s := range a.Services {
		if !placed[s.EntityID()] {
			placed[s.EntityID()] = true
			loose = append(loose, s)
		}
	}
	origin := diagram.Position{X: o.OriginX, Y: o.OriginY}
	if len(roots) > 0 {
		origin.Y = bottom + o.UngroupedMargin
	}
	mode := a.Layout
	if mode == "" {
		mode = diagram.LayoutFor(len(loose))
	}
	for i, s := range loose {
		nodes = append(nodes, e.serviceNode(s, e.flatPosition(i, len(loose), mode, origin), ""))
	}
	return nodes
}

// GenerateEdges returns one edge per distinct connection whose endpoints both
// exist.
func (e *Engine) GenerateEdges(a *diagram.ParsedArchitecture) []diagram.Edge {
	if a == nil {
		return nil
	}
	var edges []diagram.Edge
	seen := make(map[[2]string]bool)
	for _, c := range a.Connections {
		key := [2]string{c.From, c.To}
		if c.From == c.To || seen[key] || !a.Has(c.From) || !a.Has(c.To) {
			continue
		}
		seen[key] = true
		edges = append(edges, diagram.Edge{
			ID:     diagram.EdgeID(c.From, c.To),
			Source: c.From,
			Target: c.To,
			Label:  c.Label,
		})
	}
	return edges
}

// forest builds the layout arena from copies of a's groups, verifies that
// parent links form a forest, measures every box and returns the roots.
func (e *Engine) forest(a *diagram.ParsedArchitecture) []*box {
	if len(a.Groups) == 0 {
		return nil
	}
	groups := make([]*diagram.ParsedGroup, 0, len(a.Groups))
	byID := make(map[string]*box, len(a.Groups))
	for _, g := range a.Groups {
		if g == nil || byID[g.ID] != nil {
			continue
		}
		cp := *g
		groups = append(groups, &cp)
		byID[g.ID] = &box{group: &cp}
	}

	_, tiers, err := dependency.Resolve(groups)
	var cyc *dependency.CycleError
	if errors.As(err, &cyc) {
		e.log.Debug("group cycle flattened for layout", "groups", cyc.IDs)
		for _, id := range cyc.IDs {
			byID[id].group.ParentID = ""
		}
		_, tiers, err = dependency.Resolve(groups)
	}
	if err != nil {
		e.log.Debug("group nesting ignored for layout", "reason", err.Error())
		for _, g := range groups {
			g.ParentID = ""
		}
		_, tiers, _ = dependency.Resolve(groups)
	}

	var roots []*box
	assigned := make(map[string]bool)
	for _, g := range groups {
		b := byID[g.ID]
		for _, m := range g.Members {
			if s, ok := a.Service(m); ok && !assigned[m] {
				assigned[m] = true
				b.services = append(b.services, s)
			}
		}
		if parent := byID[g.ParentID]; parent != nil && g.ParentID != g.ID {
			parent.children = append(parent.children, b)
		} else {
			roots = append(roots, b)
		}
	}

	for i := len(tiers) - 1; i >= 0; i-- {
		for _, id := range tiers[i] {
			e.measure(byID[id])
		}
	}
	return roots
}

// measure sizes b from its services and its already measured children.
func (e *Engine) measure(b *box) {
	o := e.opts
	if n := len(b.services); n > 0 {
		b.cols = min(o.MaxColumns, int(math.Ceil(math.Sqrt(float64(n)))))
		rows := (n + b.cols - 1) / b.cols
		b.svcW = float64(b.cols)*o.CardWidth + float64(b.cols-1)*o.GapX
		b.svcH = float64(rows)*o.CardHeight + float64(rows-1)*o.GapY
	}
	var childW, childH float64
	for i, c := range b.children {
		childW = max(childW, c.w)
		childH += c.h
		if i > 0 {
			childH += o.NestedGap
		}
	}
	var gap float64
	if len(b.services) > 0 && len(b.children) > 0 {
		gap = o.NestedGap
	}
	b.w = max(max(b.svcW, childW, o.MinCardWidth)+2*o.PadX, o.MinGroupWidth)
	b.h = max(o.PadTop+b.svcH+gap+childH+o.PadBottom, o.MinGroupHeight)
}

// placeRoots returns the absolute position of each root box.
func (e *Engine) placeRoots(roots []*box, mode diagram.Layout) []diagram.Position {
	o := e.opts
	pos := make([]diagram.Position, len(roots))
	switch mode {
	case diagram.LayoutVertical:
		y := o.OriginY
		for i, r := range roots {
			pos[i] = diagram.Position{X: o.OriginX, Y: y}
			y += r.h + o.RootGap
		}
	case diagram.LayoutGrid:
		if len(roots) == 0 {
			return pos
		}
		cols := int(math.Ceil(math.Sqrt(float64(len(roots)))))
		rows := (len(roots) + cols - 1) / cols
		colW := make([]float64, cols)
		rowH := make([]float64, rows)
		for i, r := range roots {
			colW[i%cols] = max(colW[i%cols], r.w)
			rowH[i/cols] = max(rowH[i/cols], r.h)
		}
		for i := range roots {
			x, y := o.OriginX, o.OriginY
			for c := 0; c < i%cols; c++ {
				x += colW[c] + o.RootGap
			}
			for r := 0; r < i/cols; r++ {
				y += rowH[r] + o.RootGap
			}
			pos[i] = diagram.Position{X: x, Y: y}
		}
	default:
		x := o.OriginX
		for i, r := range roots {
			pos[i] = diagram.Position{X: x, Y: o.OriginY}
			x += r.w + o.RootGap
		}
	}
	return pos
}

// emit appends b's group node, its services and its nested groups. pos is
// relative to parentID's box, or absolute for a root.
func (e *Engine) emit(nodes []diagram.Node, b *box, pos diagram.Position, parentID string, placed map[string]bool) []diagram.Node {
	o := e.opts
	g := b.group
	node := diagram.Node{
		ID:       g.ID,
		Type:     diagram.NodeTypeGroup,
		Position: pos,
		Size:     &diagram.Size{Width: b.w, Height: b.h},
		Data: diagram.NodeData{
			Label:     g.Label,
			GroupType: g.Type,
			Metadata:  g.Metadata,
		},
	}
	if parentID != "" {
		node.ParentID = parentID
		node.Extent = diagram.ExtentParent
	}
	nodes = append(nodes, node)

	x0 := o.PadX + (b.w-2*o.PadX-b.svcW)/2
	for i, s := range b.services {
		col, row := i%b.cols, i/b.cols
		p := diagram.Position{
			X: x0 + float64(col)*(o.CardWidth+o.GapX),
			Y: o.PadTop + float64(row)*(o.CardHeight+o.GapY),
		}
		nodes = append(nodes, e.serviceNode(s, p, g.ID))
		placed[s.EntityID()] = true
	}

	y := o.PadTop + b.svcH
	if len(b.services) > 0 && len(b.children) > 0 {
		y += o.NestedGap
	}
	for _, c := range b.children {
		nodes = e.emit(nodes, c, diagram.Position{X: (b.w - c.w) / 2, Y: y}, g.ID, placed)
		y += c.h + o.NestedGap
	}
	return nodes
}

// flatPosition places the i-th of n cards starting at origin.
func (e *Engine) flatPosition(i, n int, mode diagram.Layout, origin diagram.Position) diagram.Position {
	o := e.opts
	switch mode {
	case diagram.LayoutVertical:
		return diagram.Position{X: origin.X, Y: origin.Y + float64(i)*o.VStep}
	case diagram.LayoutGrid:
		cols := int(math.Ceil(math.Sqrt(float64(n))))
		return diagram.Position{
			X: origin.X + float64(i%cols)*o.HStep,
			Y: origin.Y + float64(i/cols)*o.VStep,
		}
	default:
		return diagram.Position{X: origin.X + float64(i)*o.HStep, Y: origin.Y}
	}
}

func (e *Engine) serviceNode(s diagram.Entity, pos diagram.Position, parentID string) diagram.Node {
	data := diagram.NodeData{
		Title:      s.DisplayName(),
		Subtitle:   s.CategoryName(),
		Status:     diagram.StatusInactive,
		ServiceRef: s.EntityID(),
	}
	switch v := s.(type) {
	case diagram.ResolvedService:
		data.IconPath = v.IconPath
	case diagram.StubService:
		data.IconPath = e.opts.StubIcon
	}
	node := diagram.Node{
		ID:       s.EntityID(),
		Type:     diagram.NodeTypeService,
		Position: pos,
		Data:     data,
	}
	if parentID != "" {
		node.ParentID = parentID
		node.Extent = diagram.ExtentParent
	}
	return node
}
