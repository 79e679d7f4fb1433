package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-architect/archdiagram/internal/ontology"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	return New(ontology.Default(), DefaultOptions())
}

func TestResolveCosmosAliasesAgree(t *testing.T) {
	r := newResolver(t)
	var ids []string
	for _, name := range []string{"cosmos db", "Microsoft.DocumentDB/databaseAccounts", "azure cosmos db", "CosmosDB"} {
		rec, ok := r.Resolve(name)
		require.True(t, ok, name)
		ids = append(ids, rec.ID)
	}
	for _, id := range ids {
		assert.Equal(t, "azure-cosmos-db", id)
	}
}

func TestResolveSteps(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{"alias", "web app", "app-services"},
		{"alias with spacing and case", "  Key   VAULT ", "key-vaults"},
		{"resource type", "Microsoft.Web/sites", "app-services"},
		{"resource type by icon title", "log analytics workspaces", "log-analytics-workspaces"},
		{"short icon title", "NAT", "nat"},
		{"substring of long title", "storage", "storage-accounts"},
		{"resource type shape falls back to kind", "Microsoft.Storage/storageAccounts/blobServices", "storage-accounts"},
		{"similarity", "analytics workspaces for logs", "log-analytics-workspaces"},
	}
	r := newResolver(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := r.Resolve(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, rec.ID)
		})
	}
}

func TestResolveMisses(t *testing.T) {
	r := newResolver(t)
	for _, name := range []string{"", "   ", "Fooquantum Widget", "vault", "xyz"} {
		_, ok := r.Resolve(name)
		assert.False(t, ok, name)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := newResolver(t)
	names := []string{"cosmos db", "analytics workspaces for logs", "front door", "Microsoft.Network/virtualNetworks", "Fooquantum Widget"}
	first := make([]string, len(names))
	for i, n := range names {
		rec, _ := r.Resolve(n)
		first[i] = rec.ID
	}
	r.Reset()
	for i, n := range names {
		rec, _ := r.Resolve(n)
		assert.Equal(t, first[i], rec.ID, n)
	}
}

func TestResolveAll(t *testing.T) {
	r := newResolver(t)
	recs, missed := r.ResolveAll([]string{"cosmos db", "Azure Cosmos DB", "key vault", "nonsense xyz", "NONSENSE  xyz"})
	require.Len(t, recs, 2)
	assert.Equal(t, "azure-cosmos-db", recs[0].ID)
	assert.Equal(t, "key-vaults", recs[1].ID)
	assert.Equal(t, []string{"nonsense xyz"}, missed)
}

func TestCustomMatcher(t *testing.T) {
	never := New(ontology.Default(), Options{Matcher: MatcherFunc(func(string, string) float64 { return 0 })})
	_, ok := never.Resolve("analytics workspaces for logs")
	assert.False(t, ok)

	monitorOnly := New(ontology.Default(), Options{Matcher: MatcherFunc(func(_, candidate string) float64 {
		if candidate == "monitor" {
			return 1
		}
		return 0
	})})
	rec, ok := monitorOnly.Resolve("observability stack")
	require.True(t, ok)
	assert.Equal(t, "monitor", rec.ID)
}

func TestTrigramMatcher(t *testing.T) {
	m := TrigramMatcher{}
	assert.InDelta(t, 1.0, m.Score("key vaults", "key vaults"), 1e-9)
	assert.InDelta(t, 1.0, m.Score("azure key vaults", "key vaults"), 0.2)
	assert.Zero(t, m.Score("", "key vaults"))
	assert.Greater(t, m.Score("log analytics", "log analytics workspaces"), m.Score("log analytics", "stream analytics jobs"))
}
