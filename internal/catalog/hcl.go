package catalog

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclCatalogFile is the top-level structure of an HCL catalog file.
type hclCatalogFile struct {
	PropertyTypes []*hclPropertyType `hcl:"property_type,block"`
	CommonColumns []*hclColumn       `hcl:"common_column,block"`
	Actions       []*hclAction       `hcl:"action,block"`
}

type hclPropertyType struct {
	ID          string   `hcl:"id,label"`
	Kind        string   `hcl:"kind"`
	Units       string   `hcl:"units,optional"`
	Min         *float64 `hcl:"min,optional"`
	Max         *float64 `hcl:"max,optional"`
	MaxLength   int      `hcl:"max_length,optional"`
	NonNegative bool     `hcl:"non_negative,optional"`
}

type hclColumn struct {
	Key     string    `hcl:"key,label"`
	Type    string    `hcl:"type"`
	Group   string    `hcl:"group,optional"`
	Default cty.Value `hcl:"default,optional"`
}

type hclAction struct {
	Name           string      `hcl:"name,label"`
	ID             int         `hcl:"id"`
	DeployDuration string      `hcl:"deploy_duration,optional"`
	Service        string      `hcl:"service,optional"`
	Columns        []*hclColumn `hcl:"column,block"`
	Formula        *hclFormula `hcl:"formula,block"`
}

type hclFormula struct {
	Expression  string   `hcl:"expression"`
	RecalcOrder []string `hcl:"recalc_order"`
}

// ParseHCL decodes HCL catalog source. filename is used in diagnostics only.
func ParseHCL(src []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filename, diags)
	}
	return decodeHCL(file, filename)
}

func decodeHCL(file *hcl.File, filename string) (*Document, error) {
	var parsed hclCatalogFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", filename, diags)
	}

	doc := &Document{}
	for _, pt := range parsed.PropertyTypes {
		doc.PropertyTypes = append(doc.PropertyTypes, PropertyTypeDecl{
			ID:          pt.ID,
			Kind:        pt.Kind,
			Units:       pt.Units,
			Min:         pt.Min,
			Max:         pt.Max,
			MaxLength:   pt.MaxLength,
			NonNegative: pt.NonNegative,
		})
	}
	doc.CommonColumns = hclColumns(parsed.CommonColumns)
	for _, a := range parsed.Actions {
		ad := ActionDecl{
			Name:           a.Name,
			ID:             a.ID,
			DeployDuration: a.DeployDuration,
			Service:        a.Service,
			Columns:        hclColumns(a.Columns),
		}
		if a.Formula != nil {
			ad.Formula = &FormulaDecl{Expression: a.Formula.Expression, RecalcOrder: a.Formula.RecalcOrder}
		}
		doc.Actions = append(doc.Actions, ad)
	}
	return doc, nil
}

func hclColumns(cols []*hclColumn) []ColumnDecl {
	out := make([]ColumnDecl, 0, len(cols))
	for _, c := range cols {
		out = append(out, ColumnDecl{Key: c.Key, Type: c.Type, Group: c.Group, Default: c.Default})
	}
	return out
}
