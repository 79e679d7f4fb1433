package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cosmos db", Normalize("  Cosmos\t DB \n"))
	assert.Equal(t, "resume service", Normalize("Résumé Service"))
	assert.Equal(t, "", Normalize("   "))
}

func TestFoldShortensAccentedText(t *testing.T) {
	assert.Equal(t, "cafe", Fold("CAF\u00c9"))
	assert.Len(t, Fold("caf\u00e9 bar"), len("caf\u00e9 bar")-1)
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Fooquantum Widget", "fooquantum-widget"},
		{"  AI + Machine Learning ", "ai-machine-learning"},
		{"Café/Back-end (internal)", "cafe-back-end-internal"},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), tt.in)
	}
}

func TestStripVendorPrefix(t *testing.T) {
	assert.Equal(t, "cosmos db", StripVendorPrefix("azure cosmos db"))
	assert.Equal(t, "defender for cloud", StripVendorPrefix("microsoft defender for cloud"))
	assert.Equal(t, "key vault", StripVendorPrefix("key vault"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Fooquantum Widget", TitleCase("fooquantum   widget"))
}

func TestPhraseIndex(t *testing.T) {
	tests := []struct {
		text, phrase string
		want         int
	}{
		{"deploy a web app now", "web app", 9},
		{"two web apps", "web app", 4},
		{"a webapplication", "web app", -1},
		{"cosmosdb and cosmos", "cosmos", 13},
		{"nsg", "nsg", 0},
		{"subnets", "subnet", 0},
		{"subnetsx", "subnet", -1},
		{"", "x", -1},
		{"x", "", -1},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.phrase, func(t *testing.T) {
			assert.Equal(t, tt.want, PhraseIndex(tt.text, tt.phrase))
		})
	}
	assert.True(t, ContainsPhrase("use a key vault", "key vault"))
	assert.False(t, ContainsPhrase("monkey vaulting", "key vault"))
}
