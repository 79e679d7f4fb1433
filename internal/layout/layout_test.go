package layout

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/ontology"
)

func svc(id string) diagram.Entity {
	return diagram.ResolvedService{ServiceRecord: ontology.ServiceRecord{
		ID: id, Title: id, Category: "Test", IconPath: "/icons/" + id + ".svg",
	}}
}

func flat(n int) *diagram.ParsedArchitecture {
	a := &diagram.ParsedArchitecture{Layout: diagram.LayoutFor(n)}
	for i := 0; i < n; i++ {
		a.AddService(svc(fmt.Sprintf("s%d", i)))
	}
	return a
}

func positions(nodes []diagram.Node) map[string]diagram.Position {
	out := make(map[string]diagram.Position, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n.Position
	}
	return out
}

// nested: vnet{s1, s2, subnet{s3}} plus an ungrouped s4.
func nested(t *testing.T) *diagram.ParsedArchitecture {
	t.Helper()
	a := &diagram.ParsedArchitecture{Layout: diagram.LayoutHorizontal}
	for _, id := range []string{"s1", "s2", "s3", "s4"} {
		require.True(t, a.AddService(svc(id)))
	}
	require.True(t, a.AddGroup(&diagram.ParsedGroup{ID: "vnet", Label: "VNet", Type: diagram.GroupVirtualNetwork}))
	require.True(t, a.AddGroup(&diagram.ParsedGroup{ID: "subnet", Label: "Subnet", Type: diagram.GroupSubnet}))
	require.NoError(t, a.AddMember("vnet", "s1"))
	require.NoError(t, a.AddMember("vnet", "s2"))
	require.NoError(t, a.AddMember("vnet", "subnet"))
	require.NoError(t, a.AddMember("subnet", "s3"))
	require.True(t, a.AddConnection(diagram.Connection{From: "s1", To: "s4", Label: "uses"}))
	return a
}

func TestFlatLayouts(t *testing.T) {
	e := New(DefaultOptions())

	horizontal := positions(e.GenerateNodes(flat(3)))
	assert.Equal(t, diagram.Position{X: 100, Y: 100}, horizontal["s0"])
	assert.Equal(t, diagram.Position{X: 600, Y: 100}, horizontal["s2"])

	vertical := positions(e.GenerateNodes(flat(5)))
	assert.Equal(t, diagram.Position{X: 100, Y: 700}, vertical["s4"])

	grid := positions(e.GenerateNodes(flat(7)))
	assert.Equal(t, diagram.Position{X: 350, Y: 250}, grid["s4"])
	assert.Equal(t, diagram.Position{X: 100, Y: 400}, grid["s6"])
}

func TestGroupedLayout(t *testing.T) {
	nodes := New(DefaultOptions()).GenerateNodes(nested(t))

	var ids []string
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"vnet", "s1", "s2", "subnet", "s3", "s4"}, ids)

	byID := make(map[string]diagram.Node)
	for _, n := range nodes {
		byID[n.ID] = n
	}

	vnet := byID["vnet"]
	assert.Equal(t, diagram.NodeTypeGroup, vnet.Type)
	assert.Equal(t, diagram.Position{X: 100, Y: 100}, vnet.Position)
	assert.Equal(t, &diagram.Size{Width: 480, Height: 420}, vnet.Size)
	assert.Empty(t, vnet.ParentID)
	assert.Equal(t, diagram.GroupVirtualNetwork, vnet.Data.GroupType)

	assert.Equal(t, diagram.Position{X: 40, Y: 60}, byID["s1"].Position)
	assert.Equal(t, diagram.Position{X: 260, Y: 60}, byID["s2"].Position)
	assert.Equal(t, "vnet", byID["s1"].ParentID)
	assert.Equal(t, diagram.ExtentParent, byID["s1"].Extent)

	subnet := byID["subnet"]
	assert.Equal(t, diagram.Position{X: 90, Y: 190}, subnet.Position)
	assert.Equal(t, &diagram.Size{Width: 300, Height: 190}, subnet.Size)
	assert.Equal(t, "vnet", subnet.ParentID)
	assert.Equal(t, diagram.Position{X: 60, Y: 60}, byID["s3"].Position)
	assert.Equal(t, "subnet", byID["s3"].ParentID)

	s4 := byID["s4"]
	assert.Equal(t, diagram.Position{X: 100, Y: 640}, s4.Position)
	assert.Empty(t, s4.ParentID)
	assert.Equal(t, diagram.NodeData{
		Title: "s4", Subtitle: "Test", IconPath: "/icons/s4.svg",
		Status: diagram.StatusInactive, ServiceRef: "s4",
	}, s4.Data)
}

func TestLayoutIsIdempotent(t *testing.T) {
	a := nested(t)
	e := New(DefaultOptions())

	first, firstEdges := e.Generate(a)
	second, secondEdges := e.Generate(a)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("nodes differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(firstEdges, secondEdges); diff != "" {
		t.Errorf("edges differ (-first +second):\n%s", diff)
	}
	assert.Empty(t, cmp.Diff(first, New(DefaultOptions()).GenerateNodes(nested(t))))
}

func TestSiblingBoxesDoNotOverlap(t *testing.T) {
	for _, mode := range []diagram.Layout{diagram.LayoutHorizontal, diagram.LayoutVertical, diagram.LayoutGrid} {
		t.Run(string(mode), func(t *testing.T) {
			a := &diagram.ParsedArchitecture{Layout: mode}
			for r := 0; r < 5; r++ {
				root := fmt.Sprintf("r%d", r)
				require.True(t, a.AddGroup(&diagram.ParsedGroup{ID: root, Type: diagram.GroupRegion}))
				for c := 0; c < r; c++ {
					child := fmt.Sprintf("%s-c%d", root, c)
					require.True(t, a.AddGroup(&diagram.ParsedGroup{ID: child, Type: diagram.GroupSubnet}))
					require.NoError(t, a.AddMember(root, child))
					for s := 0; s <= c+r; s++ {
						id := fmt.Sprintf("%s-s%d", child, s)
						require.True(t, a.AddService(svc(id)))
						require.NoError(t, a.AddMember(child, id))
					}
				}
			}

			siblings := make(map[string][]diagram.Node)
			for _, n := range New(DefaultOptions()).GenerateNodes(a) {
				if n.Type == diagram.NodeTypeGroup {
					siblings[n.ParentID] = append(siblings[n.ParentID], n)
				}
			}
			require.Len(t, siblings[""], 5)
			for parent, boxes := range siblings {
				for i := range boxes {
					for j := i + 1; j < len(boxes); j++ {
						assert.False(t, overlap(boxes[i], boxes[j]), "%s: %s overlaps %s", parent, boxes[i].ID, boxes[j].ID)
					}
				}
			}
		})
	}
}

func overlap(a, b diagram.Node) bool {
	return a.Position.X < b.Position.X+b.Size.Width && b.Position.X < a.Position.X+a.Size.Width &&
		a.Position.Y < b.Position.Y+b.Size.Height && b.Position.Y < a.Position.Y+a.Size.Height
}

func TestCyclicParentsAreFlattened(t *testing.T) {
	a := &diagram.ParsedArchitecture{
		Services: []diagram.Entity{svc("s1")},
		Groups: []*diagram.ParsedGroup{
			{ID: "a", Type: diagram.GroupSubnet, ParentID: "b", Members: []string{"s1"}},
			{ID: "b", Type: diagram.GroupSubnet, ParentID: "a"},
		},
	}

	nodes := New(DefaultOptions()).GenerateNodes(a)
	require.Len(t, nodes, 3)
	for _, n := range nodes {
		if n.Type == diagram.NodeTypeGroup {
			assert.Empty(t, n.ParentID, n.ID)
		}
	}
	assert.Equal(t, "b", a.Groups[0].ParentID, "input groups are not modified")
}

func TestGenerateEdgesAndStubIcons(t *testing.T) {
	a := nested(t)
	stub, ok := diagram.NewStub("Fooquantum Widget")
	require.True(t, ok)
	require.True(t, a.AddService(stub))
	a.Connections = append(a.Connections,
		diagram.Connection{From: "s1", To: "missing"},
		diagram.Connection{From: "s2", To: "s2"},
		diagram.Connection{From: "s1", To: "s4", Label: "duplicate"},
	)

	e := New(DefaultOptions())
	edges := e.GenerateEdges(a)
	assert.Equal(t, []diagram.Edge{{ID: diagram.EdgeID("s1", "s4"), Source: "s1", Target: "s4", Label: "uses"}}, edges)

	for _, n := range e.GenerateNodes(a) {
		if n.ID == stub.ID {
			assert.Equal(t, DefaultOptions().StubIcon, n.Data.IconPath)
			assert.Equal(t, diagram.StubCategory, n.Data.Subtitle)
			return
		}
	}
	t.Fatal("stub node missing")
}

func TestEmptyArchitecture(t *testing.T) {
	e := New(DefaultOptions())
	assert.Empty(t, e.GenerateNodes(&diagram.ParsedArchitecture{}))
	assert.Empty(t, e.GenerateEdges(&diagram.ParsedArchitecture{}))
	assert.Nil(t, e.GenerateNodes(nil))
}
