package result

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/azure-architect/archdiagram/internal/diagram"
)

func TestResourceScope(t *testing.T) {
	var s ResourceScope
	assert.True(t, s.Empty())

	s.AddSubscription("")
	s.AddManagementGroup("mg-root")
	s.AddManagementGroup("mg-root")
	s.AddPolicyAssignment(PolicyAssignment{PolicyDefinitionID: "p1"})
	s.AddPolicyAssignment(PolicyAssignment{PolicyDefinitionID: "p1"})

	assert.False(t, s.Empty())
	assert.Equal(t, []string{"mg-root"}, s.ManagementGroups)
	assert.Empty(t, s.Subscriptions)
	assert.Len(t, s.PolicyAssignments, 1)
}

func TestGovernanceSummaryAdd(t *testing.T) {
	var sum GovernanceSummary
	sum.Add(diagram.GroupSubscription, GovernanceEntry{ID: "sub", MemberServices: []string{"vm", "app"}})
	sum.Add(diagram.GroupRegion, GovernanceEntry{ID: "eu"})

	assert.Equal(t, []GovernanceEntry{{ID: "sub", MemberServices: []string{"app", "vm"}}}, sum.Subscriptions)
	assert.Empty(t, sum.ManagementGroups)
}
