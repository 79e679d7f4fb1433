package iac

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const terraformPrefix = "azurerm_"

var terraformResource = regexp.MustCompile(`resource\s+"(azurerm_[a-z0-9_]+)"\s+"([A-Za-z0-9_-]+)"\s*\{`)

// ParseTerraform extracts azurerm resource blocks. Each block is cut out of
// the surrounding prose and parsed with hclsyntax; blocks that do not parse
// are skipped. depends_on entries and attribute references to other declared
// azurerm resources become dependencies.
func ParseTerraform(text string) []Declaration {
	var decls []Declaration
	for _, m := range terraformResource.FindAllStringIndex(text, -1) {
		end := matchBrace(text, m[1]-1, `"`)
		if end < 0 {
			continue
		}
		file, diags := hclsyntax.ParseConfig([]byte(text[m[0]:end+1]), "snippet.tf", hcl.InitialPos)
		if diags.HasErrors() || file == nil {
			continue
		}
		body, ok := file.Body.(*hclsyntax.Body)
		if !ok {
			continue
		}
		for _, block := range body.Blocks {
			if block.Type != "resource" || len(block.Labels) != 2 {
				continue
			}
			d := Declaration{
				Symbol:     block.Labels[1],
				Type:       block.Labels[0],
				Language:   Terraform,
				Attributes: make(map[string]string),
				Offset:     m[0] + block.TypeRange.Start.Byte,
			}
			readBody(block.Body, &d, true)
			decls = append(decls, d)
		}
	}

	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.Key()] = true
	}
	for i := range decls {
		d := &decls[i]
		kept := d.DependsOn[:0]
		for _, ref := range d.DependsOn {
			if declared[ref] && ref != d.Key() {
				kept = append(kept, ref)
			}
		}
		d.DependsOn = kept
	}
	return decls
}

func readBody(body *hclsyntax.Body, d *Declaration, top bool) {
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := body.Attributes[name]
		if top && name == "depends_on" {
			if tuple, ok := attr.Expr.(*hclsyntax.TupleConsExpr); ok {
				for _, item := range tuple.Exprs {
					trav, diags := hcl.AbsTraversalForExpr(item)
					if diags.HasErrors() {
						continue
					}
					if key := traversalKey(trav); key != "" {
						d.DependsOn = appendUnique(d.DependsOn, key)
					}
				}
			}
			continue
		}
		for _, trav := range attr.Expr.Variables() {
			if key := traversalKey(trav); key != "" {
				d.DependsOn = appendUnique(d.DependsOn, key)
			}
		}
		if top {
			if s, ok := literalString(attr.Expr); ok {
				d.Attributes[name] = s
			}
		}
	}
	for _, nested := range body.Blocks {
		readBody(nested.Body, d, false)
	}
}

// literalString evaluates expr without variables and converts the result to
// a string when possible.
func literalString(expr hclsyntax.Expression) (string, bool) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() || !val.IsWhollyKnown() || val.IsNull() {
		return "", false
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", false
	}
	return str.AsString(), true
}

// traversalKey returns "azurerm_type.name" for a reference to another azurerm
// resource, or "".
func traversalKey(trav hcl.Traversal) string {
	if len(trav) < 2 || !strings.HasPrefix(trav.RootName(), terraformPrefix) {
		return ""
	}
	attr, ok := trav[1].(hcl.TraverseAttr)
	if !ok {
		return ""
	}
	return trav.RootName() + "." + attr.Name
}
