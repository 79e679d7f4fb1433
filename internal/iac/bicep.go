package iac

import (
	"regexp"
	"strings"
)

var (
	bicepResource  = regexp.MustCompile(`(?m)^[ \t]*resource[ \t]+([A-Za-z_][A-Za-z0-9_]*)[ \t]+'([A-Za-z0-9.]+/[A-Za-z0-9/]+)@([^']+)'[ \t]*(?:existing[ \t]*)?=[ \t]*\{`)
	bicepDependsOn = regexp.MustCompile(`dependsOn\s*:\s*\[([^\]]*)\]`)
	bicepAttribute = regexp.MustCompile(`(?m)^[ \t]*(name|location|kind)[ \t]*:[ \t]*'([^']*)'`)
	bicepSymbolRef = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\.(id|name|properties)\b`)
)

// ParseBicep extracts `resource <sym> '<type>@<version>' = { ... }` blocks.
// Explicit dependsOn entries and implicit <sym>.id style references to other
// declared symbols both become dependencies.
func ParseBicep(text string) []Declaration {
	var decls []Declaration
	var bodies []string
	for _, m := range bicepResource.FindAllStringSubmatchIndex(text, -1) {
		open := m[1] - 1
		end := matchBrace(text, open, "'")
		if end < 0 {
			end = len(text) - 1
		}
		decls = append(decls, Declaration{
			Symbol:     text[m[2]:m[3]],
			Type:       text[m[4]:m[5]],
			APIVersion: text[m[6]:m[7]],
			Language:   Bicep,
			Attributes: make(map[string]string),
			Offset:     m[0],
		})
		bodies = append(bodies, text[open:end+1])
	}

	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Symbol] = true
	}
	for i := range decls {
		d := &decls[i]
		body := bodies[i]
		for _, a := range bicepAttribute.FindAllStringSubmatch(body, -1) {
			if _, set := d.Attributes[a[1]]; !set {
				d.Attributes[a[1]] = a[2]
			}
		}
		for _, dm := range bicepDependsOn.FindAllStringSubmatch(body, -1) {
			for _, ref := range strings.FieldsFunc(dm[1], func(r rune) bool {
				return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
			}) {
				ref = strings.TrimSuffix(ref, ".id")
				if declared[ref] && ref != d.Symbol {
					d.DependsOn = appendUnique(d.DependsOn, ref)
				}
			}
		}
		for _, rm := range bicepSymbolRef.FindAllStringSubmatch(body, -1) {
			if declared[rm[1]] && rm[1] != d.Symbol {
				d.DependsOn = appendUnique(d.DependsOn, rm[1])
			}
		}
	}
	return decls
}
