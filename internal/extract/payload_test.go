package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	data := []byte(`{
		"services": ["App Services", {"name": "Key Vaults"}, {"title": "Storage Accounts"}, "  "],
		"connections": [
			{"from_service": "App Services", "to_service": "Key Vaults", "label": "secrets"},
			{"source": "App Services", "target": "Storage Accounts", "type": "blobs"}
		],
		"groups": [
			{"id": "g1", "name": "Landing Zone", "groupType": "landingZone", "services": ["Virtual Networks"], "parentId": "sub"}
		],
		"suggested_services": ["Application Insights"]
	}`)

	p, err := DecodePayload(data)
	require.NoError(t, err)

	assert.Equal(t, NameList{"App Services", "Key Vaults", "Storage Accounts"}, p.Services)
	assert.Equal(t, []PayloadLink{
		{From: "App Services", To: "Key Vaults", Label: "secrets"},
		{From: "App Services", To: "Storage Accounts", Label: "blobs"},
	}, p.Connections)
	require.Len(t, p.Groups, 1)
	assert.Equal(t, PayloadGroup{
		ID:        "g1",
		Label:     "Landing Zone",
		GroupType: "landingZone",
		Members:   NameList{"Virtual Networks"},
		ParentID:  "sub",
	}, p.Groups[0])
	assert.Equal(t, NameList{"Application Insights"}, p.SuggestedServices)
}

func TestDecodePayloadRequiresServices(t *testing.T) {
	for _, in := range []string{`{"connections": []}`, `{"services": "App Services"}`} {
		_, err := DecodePayload([]byte(in))
		assert.ErrorIs(t, err, ErrNoPayload, in)
	}
	_, err := DecodePayload([]byte(`not json`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPayload)
}

func TestFindPayload(t *testing.T) {
	tests := []struct {
		name string
		text string
		want NameList
	}{
		{
			name: "fenced",
			text: "Analysis:\n```json\n{\"services\": [\"App Services\", \"SQL Database\"]}\n```\nDone.",
			want: NameList{"App Services", "SQL Database"},
		},
		{
			name: "trailing comma",
			text: "```\n{\"services\": [\"Key Vaults\",], \"connections\": [],}\n```",
			want: NameList{"Key Vaults"},
		},
		{
			name: "single quotes",
			text: "The result is {'services': ['Cache Redis']} as requested",
			want: NameList{"Cache Redis"},
		},
		{
			name: "largest object wins",
			text: `prefix {"services": ["A", "B"], "groups": [{"id": "g", "label": "Subscription"}]} suffix`,
			want: NameList{"A", "B"},
		},
		{
			name: "closing brace inside a string",
			text: `{"services": ["App Service"], "description": "uses a closing } brace"}`,
			want: NameList{"App Service"},
		},
		{
			name: "opening brace inside a fenced string",
			text: "Here:\n```json\n{\"services\": [\"Key Vault\"], \"description\": \"template {name\"}\n```",
			want: NameList{"Key Vault"},
		},
		{
			name: "escaped quote before a brace",
			text: `see {"services": ["Key Vault"], "description": "say \"hi}\" twice"} below`,
			want: NameList{"Key Vault"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FindPayload(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Services)
		})
	}
}

func TestFindPayloadNone(t *testing.T) {
	for _, in := range []string{
		"A web app in front of a SQL database",
		"```json\n{\"description\": \"no services key\"}\n```",
		"{ broken",
		strings.Repeat("{", 40000),
	} {
		_, err := FindPayload(in)
		assert.ErrorIs(t, err, ErrNoPayload, in)
	}
}

func TestExpandServices(t *testing.T) {
	got := ExpandServices([]string{"App Services", "Cognitive Services", "Azure AI Search", "App Services", "Azure Cognitive Services"})
	assert.Equal(t, []string{
		"App Services",
		"Azure Cognitive Services - Text Analytics",
		"Azure Cognitive Services - Translator",
		"Azure Cognitive Services - Vision",
		"Azure AI Search (Cognitive Search)",
	}, got)
}
