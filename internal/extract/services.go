// Package extract turns free text into raw service names and connections, and
// decodes structured analysis payloads.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/azure-architect/archdiagram/internal/iac"
	"github.com/azure-architect/archdiagram/internal/ontology"
)

var (
	resourceTypeToken = regexp.MustCompile(`(?i)\bmicrosoft\.[a-z0-9]+/[a-z0-9]+(?:/[a-z0-9]+)*`)
	vendorPhrase      = regexp.MustCompile(`\b(?:azure|microsoft)\s+([a-z0-9][a-z0-9.+-]*(?:\s+[a-z0-9][a-z0-9.+-]*){0,3})`)
)

// phraseStops end a vendor-prefixed phrase.
var phraseStops = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "by": true,
	"for": true, "from": true, "in": true, "into": true, "is": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "via": true, "which": true, "with": true,
	"will": true, "using": true, "uses": true, "behind": true, "through": true, "can": true,
	"should": true, "connects": true, "calls": true, "reads": true, "writes": true, "sends": true,
}

// Extractor finds service mentions and connections in free text.
type Extractor struct {
	catalog *ontology.Catalog
	aliases []string
}

// New returns an extractor using c's alias table.
func New(c *ontology.Catalog) *Extractor {
	keys := c.Aliases()
	// longest first so "virtual network gateway" claims its span before
	// "virtual network" can
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return &Extractor{catalog: c, aliases: keys}
}

type mention struct {
	name  string
	start int
	end   int
}

// Services returns the distinct service names mentioned in text, ordered by
// first appearance. Names come from resource-type tokens, vendor-prefixed
// phrases, word-bounded alias phrases and IaC resource declarations.
func (e *Extractor) Services(text string) []string {
	folded := ontology.Fold(text)
	var found []mention

	// offsets below are in folded coordinates; matches on text are converted
	for _, loc := range resourceTypeToken.FindAllStringIndex(text, -1) {
		start := foldedOffset(text, loc[0])
		found = append(found, mention{name: text[loc[0]:loc[1]], start: start, end: start + loc[1] - loc[0]})
	}
	aliases := e.aliasMentions(folded)
	for _, m := range vendorPhrase.FindAllStringSubmatchIndex(folded, -1) {
		name := trimPhrase(folded[m[2]:m[3]])
		if name == "" || overlapsAny(aliases, m[0], m[2]+len(name)) {
			continue
		}
		found = append(found, mention{name: name, start: m[0], end: m[2] + len(name)})
	}
	found = append(found, aliases...)
	for _, d := range iac.Parse(text) {
		off := foldedOffset(text, d.Offset)
		found = append(found, mention{name: e.declarationName(d), start: off, end: off})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })
	seen := make(map[string]bool)
	var names []string
	for _, m := range found {
		key := ontology.Normalize(m.name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, m.name)
	}
	return names
}

// aliasMentions finds every alias phrase in folded text. Longer phrases claim
// their span first; shorter phrases overlapping a claimed span are dropped.
func (e *Extractor) aliasMentions(folded string) []mention {
	var out []mention
	var claimed [][2]int
	overlaps := func(s, t int) bool {
		for _, c := range claimed {
			if s < c[1] && c[0] < t {
				return true
			}
		}
		return false
	}
	for _, phrase := range e.aliases {
		from := 0
		for from < len(folded) {
			i := ontology.PhraseIndex(folded[from:], phrase)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(phrase)
			if start > 0 && isWordByte(folded[start-1]) {
				// PhraseIndex checked the boundary against the slice start only
				from = start + 1
				continue
			}
			if !overlaps(start, end) {
				claimed = append(claimed, [2]int{start, end})
				out = append(out, mention{name: phrase, start: start, end: end})
			}
			from = end
		}
	}
	return out
}

// foldedOffset maps a byte offset in text to the matching offset in
// ontology.Fold(text). Folding drops combining marks, so the two differ once
// accented text precedes off.
func foldedOffset(text string, off int) int {
	return len(ontology.Fold(text[:off]))
}

func overlapsAny(ms []mention, start, end int) bool {
	for _, m := range ms {
		if start < m.end && m.start < end {
			return true
		}
	}
	return false
}

// declarationName maps a declaration to a name the resolver understands.
func (e *Extractor) declarationName(d iac.Declaration) string {
	if d.Language == iac.Terraform {
		if m, ok := e.catalog.ByTerraformType(d.Type); ok {
			return m.ResourceType
		}
		return strings.ReplaceAll(strings.TrimPrefix(d.Type, "azurerm_"), "_", " ")
	}
	return d.Type
}

// trimPhrase cuts a vendor phrase at its first stop word.
func trimPhrase(p string) string {
	words := strings.Fields(p)
	for i, w := range words {
		if phraseStops[strings.Trim(w, ".,;:")] {
			words = words[:i]
			break
		}
	}
	if len(words) == 0 {
		return ""
	}
	words[len(words)-1] = strings.TrimRight(words[len(words)-1], ".,;:-")
	return strings.TrimSpace(strings.Join(words, " "))
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}
