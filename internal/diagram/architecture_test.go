package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-architect/archdiagram/internal/ontology"
)

func svc(id, title string) Entity {
	return ResolvedService{ServiceRecord: ontology.ServiceRecord{ID: id, Title: title, Category: "Test"}}
}

func sampleArchitecture(t *testing.T) *ParsedArchitecture {
	t.Helper()
	a := &ParsedArchitecture{}
	require.True(t, a.AddService(svc("app", "App Services")))
	require.True(t, a.AddService(svc("db", "SQL Database")))
	require.True(t, a.AddGroup(&ParsedGroup{ID: "sub", Label: "Prod", Type: GroupSubscription}))
	require.True(t, a.AddGroup(&ParsedGroup{ID: "rg", Label: "Workload", Type: GroupResourceGroup}))
	require.True(t, a.AddGroup(&ParsedGroup{ID: "vnet", Label: "Spoke", Type: GroupVirtualNetwork}))
	return a
}

func TestAddServiceAndConnection(t *testing.T) {
	a := sampleArchitecture(t)
	assert.False(t, a.AddService(svc("app", "duplicate")))
	assert.False(t, a.AddService(svc("sub", "clashes with a group")))

	assert.True(t, a.AddConnection(Connection{From: "app", To: "db", Label: "data access"}))
	assert.False(t, a.AddConnection(Connection{From: "app", To: "db", Label: "again"}), "duplicate pair")
	assert.False(t, a.AddConnection(Connection{From: "app", To: "app"}), "self loop")
	assert.False(t, a.AddConnection(Connection{From: "app", To: "missing"}), "unknown endpoint")
	assert.True(t, a.AddConnection(Connection{From: "db", To: "app"}), "reverse direction is a different pair")
	assert.Len(t, a.Connections, 2)
	assert.Empty(t, Validate(a))
}

func TestAddMember(t *testing.T) {
	a := sampleArchitecture(t)
	require.NoError(t, a.AddMember("sub", "rg"))
	require.NoError(t, a.AddMember("rg", "vnet"))
	require.NoError(t, a.AddMember("vnet", "app"))
	require.NoError(t, a.AddMember("vnet", "app"), "idempotent for the same owner")

	assert.ErrorIs(t, a.AddMember("rg", "app"), ErrAlreadyOwned)
	assert.ErrorIs(t, a.AddMember("vnet", "vnet"), ErrSelfReference)
	assert.ErrorIs(t, a.AddMember("vnet", "sub"), ErrWouldCycle)
	assert.ErrorIs(t, a.AddMember("nope", "db"), ErrUnknownID)
	assert.ErrorIs(t, a.AddMember("rg", "nope"), ErrUnknownID)

	assert.Equal(t, "sub", a.Group("rg").ParentID)
	assert.Equal(t, "rg", a.Group("vnet").ParentID)
	assert.Equal(t, []string{"app"}, a.Group("vnet").Members)

	var chain []string
	for _, g := range a.Ancestors("app") {
		chain = append(chain, g.ID)
	}
	assert.Equal(t, []string{"vnet", "rg", "sub"}, chain)
	assert.True(t, a.IsAncestor("sub", "app"))
	assert.False(t, a.IsAncestor("app", "sub"))

	ungrouped := a.Ungrouped()
	require.Len(t, ungrouped, 1)
	assert.Equal(t, "db", ungrouped[0].EntityID())
	assert.Equal(t, []*ParsedGroup{a.Group("rg")}, a.Children("sub"))
	assert.Empty(t, Validate(a))
}

func TestRemoveService(t *testing.T) {
	a := sampleArchitecture(t)
	require.NoError(t, a.AddMember("vnet", "app"))
	require.True(t, a.AddConnection(Connection{From: "app", To: "db"}))

	a.RemoveService("app")
	assert.False(t, a.HasService("app"))
	assert.Empty(t, a.Group("vnet").Members)
	assert.Empty(t, a.Connections)
	assert.Empty(t, Validate(a))
}

func TestPruneRepairsHandBuiltInput(t *testing.T) {
	a := &ParsedArchitecture{
		Services: []Entity{svc("app", "App Services"), svc("db", "SQL Database")},
		Groups: []*ParsedGroup{
			{ID: "a", Type: GroupSubscription, Members: []string{"app", "app", "ghost", "a"}, ParentID: "b"},
			{ID: "b", Type: GroupResourceGroup, Members: []string{"a", "app"}, ParentID: "a"},
			{ID: "c", Type: GroupSubnet, ParentID: "missing"},
		},
		Connections: []Connection{
			{From: "app", To: "db"},
			{From: "app", To: "db"},
			{From: "db", To: "db"},
			{From: "db", To: "ghost"},
		},
	}
	require.NotEmpty(t, Validate(a))

	a.Prune()
	assert.Empty(t, Validate(a))
	assert.Equal(t, []Connection{{From: "app", To: "db"}}, a.Connections)
	// the b -> a -> b loop is broken by detaching a, the first group on it
	assert.Empty(t, a.Group("a").ParentID)
	assert.Equal(t, "a", a.Group("b").ParentID)
	assert.Equal(t, []string{"app", "b"}, a.Group("a").Members)
	assert.Empty(t, a.Group("c").ParentID)
	for _, g := range a.Groups {
		assert.NotContains(t, g.Members, g.ID)
	}
}

func TestValidateDetectsCycle(t *testing.T) {
	a := &ParsedArchitecture{Groups: []*ParsedGroup{
		{ID: "x", Type: GroupRegion, ParentID: "y", Members: []string{"y"}},
		{ID: "y", Type: GroupSubnet, ParentID: "x", Members: []string{"x"}},
	}}
	errs := Validate(a)
	require.NotEmpty(t, errs)
	var messages []string
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "group parent cycle: x -> y -> x")
}

func TestGroupTypePrecedence(t *testing.T) {
	assert.Less(t, GroupManagementGroup.Precedence(), GroupSubscription.Precedence())
	assert.Less(t, GroupSubscription.Precedence(), GroupResourceGroup.Precedence())
	assert.Less(t, GroupSecurityBoundary.Precedence(), GroupDefault.Precedence())
	assert.Equal(t, len(GroupTypes()), GroupType("bogus").Precedence())
	assert.False(t, GroupType("bogus").Valid())

	for in, want := range map[string]GroupType{
		"landing_zone":   GroupLandingZone,
		"Landing Zone":   GroupLandingZone,
		"virtualNetwork": GroupVirtualNetwork,
		"VNet":           GroupVirtualNetwork,
		"nsg":            GroupNetworkSecurityGroup,
	} {
		got, ok := ParseGroupType(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseGroupType("galaxy")
	assert.False(t, ok)
}

func TestLayoutFor(t *testing.T) {
	assert.Equal(t, LayoutHorizontal, LayoutFor(0))
	assert.Equal(t, LayoutHorizontal, LayoutFor(3))
	assert.Equal(t, LayoutVertical, LayoutFor(4))
	assert.Equal(t, LayoutVertical, LayoutFor(6))
	assert.Equal(t, LayoutGrid, LayoutFor(7))
}

func TestNewStub(t *testing.T) {
	s, ok := NewStub("fooquantum widget")
	require.True(t, ok)
	assert.Equal(t, "ai:fooquantum-widget", s.EntityID())
	assert.Equal(t, "Fooquantum Widget", s.DisplayName())
	assert.Equal(t, StubCategory, s.CategoryName())

	_, ok = NewStub(" ?! ")
	assert.False(t, ok)
}

func TestEdgeIDIsStable(t *testing.T) {
	assert.Equal(t, EdgeID("a", "b"), EdgeID("a", "b"))
	assert.NotEqual(t, EdgeID("a", "b"), EdgeID("b", "a"))
	assert.Regexp(t, `^edge-[0-9a-f-]{36}$`, EdgeID("a", "b"))
}
