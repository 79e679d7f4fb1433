// Package iac pulls resource declarations out of infrastructure-as-code
// snippets embedded in free text. Only declarations and their dependencies
// are read; nothing is generated or validated.
package iac

import (
	"sort"
	"strings"
)

// Language identifies the snippet syntax a declaration came from.
type Language string

const (
	Bicep     Language = "bicep"
	Terraform Language = "terraform"
)

// Declaration is one resource block.
type Declaration struct {
	// Symbol is the Bicep symbolic name or the Terraform resource name.
	Symbol string
	// Type is a resource type (Microsoft.Web/sites) for Bicep and an azurerm
	// type (azurerm_linux_web_app) for Terraform.
	Type       string
	APIVersion string
	Language   Language
	// Attributes holds literal string attributes such as name and location.
	Attributes map[string]string
	// DependsOn lists the keys of declarations this one references.
	DependsOn []string
	// Offset is the byte offset of the declaration in the scanned text.
	Offset int
}

// Key is how other declarations refer to this one: the symbol in Bicep,
// type.name in Terraform.
func (d Declaration) Key() string {
	if d.Language == Terraform {
		return d.Type + "." + d.Symbol
	}
	return d.Symbol
}

// Parse extracts Bicep and Terraform declarations from text, ordered by
// offset.
func Parse(text string) []Declaration {
	decls := append(ParseBicep(text), ParseTerraform(text)...)
	sort.SliceStable(decls, func(i, j int) bool { return decls[i].Offset < decls[j].Offset })
	return decls
}

// matchBrace returns the index of the brace closing the one at open, or -1.
// Strings delimited by any byte in quotes are skipped.
func matchBrace(s string, open int, quotes string) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		if strings.IndexByte(quotes, c) >= 0 {
			quote = c
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
