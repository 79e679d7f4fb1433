package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-architect/archdiagram/internal/diagram"
	"github.com/azure-architect/archdiagram/internal/ontology"
)

func records(t *testing.T, titles ...string) []ontology.ServiceRecord {
	t.Helper()
	c := ontology.Default()
	out := make([]ontology.ServiceRecord, 0, len(titles))
	for _, title := range titles {
		rec, ok := c.ByTitle(title)
		require.True(t, ok, title)
		out = append(out, rec)
	}
	return out
}

func TestConnections(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		services []string
		want     []diagram.Connection
	}{
		{
			name:     "verbs",
			text:     "App Services uses Key Vaults. The Function Apps writes to Storage Accounts",
			services: []string{"App Services", "Key Vaults", "Function Apps", "Storage Accounts"},
			want: []diagram.Connection{
				{From: "app-services", To: "key-vaults", Label: "uses"},
				{From: "function-apps", To: "storage-accounts", Label: "writes to"},
			},
		},
		{
			name:     "singular mention matches plural title",
			text:     "Each App Service calls the SQL Database",
			services: []string{"App Services", "SQL Database"},
			want:     []diagram.Connection{{From: "app-services", To: "sql-database", Label: "calls"}},
		},
		{
			name:     "arrow chains",
			text:     "Front Door -> App Services -> SQL Database\nApp Services <--> Cache Redis",
			services: []string{"Front Door and CDN Profiles", "App Services", "SQL Database", "Cache Redis"},
			want: []diagram.Connection{
				{From: "front-door-and-cdn-profiles", To: "app-services"},
				{From: "app-services", To: "sql-database"},
				{From: "app-services", To: "cache-redis", Label: "bidirectional"},
			},
		},
		{
			name:     "fragments that name no service are ignored",
			text:     "Deploy a web app that connects to a Cosmos DB for storage, protect secrets with Key Vault",
			services: []string{"App Services", "Azure Cosmos Db", "Key Vaults"},
			want:     nil,
		},
		{
			name:     "self loops are dropped",
			text:     "App Services calls App Services",
			services: []string{"App Services", "SQL Database"},
			want:     nil,
		},
		{
			name: "bicep dependsOn",
			text: `resource site 'Microsoft.Web/sites@2023-01-01' = {
  properties: {
    keyVaultReferenceIdentity: vault.id
  }
  dependsOn: [ plan ]
}
resource plan 'Microsoft.Web/serverfarms@2023-01-01' = {}
resource vault 'Microsoft.KeyVault/vaults@2023-07-01' = {}
`,
			services: []string{"App Services", "App Service Plans", "Key Vaults"},
			want: []diagram.Connection{
				{From: "app-services", To: "app-service-plans", Label: LabelDependsOn},
				{From: "app-services", To: "key-vaults", Label: LabelDependsOn},
			},
		},
	}
	e := New(ontology.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Connections(tt.text, records(t, tt.services...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConnectionsNeedTwoServices(t *testing.T) {
	e := New(ontology.Default())
	assert.Nil(t, e.Connections("App Services -> SQL Database", records(t, "App Services")))
}
