package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/zclconf/go-cty/cty"
)

// tomlCatalogFile mirrors hclCatalogFile with arrays of tables:
//
//	[[property_type]]
//	id = "step_duration"
//	kind = "float32"
//
//	[[action]]
//	name = "wait"
//	id = 1
//
//	[[action.column]]
//	key = "note"
//	type = "comment"
type tomlCatalogFile struct {
	PropertyTypes []tomlPropertyType `toml:"property_type"`
	CommonColumns []tomlColumn       `toml:"common_column"`
	Actions       []tomlAction       `toml:"action"`
}

type tomlPropertyType struct {
	ID          string `toml:"id"`
	Kind        string `toml:"kind"`
	Units       string `toml:"units"`
	Min         any    `toml:"min"`
	Max         any    `toml:"max"`
	MaxLength   int    `toml:"max_length"`
	NonNegative bool   `toml:"non_negative"`
}

type tomlColumn struct {
	Key     string `toml:"key"`
	Type    string `toml:"type"`
	Group   string `toml:"group"`
	Default any    `toml:"default"`
}

type tomlAction struct {
	Name           string       `toml:"name"`
	ID             int          `toml:"id"`
	DeployDuration string       `toml:"deploy_duration"`
	Service        string       `toml:"service"`
	Columns        []tomlColumn `toml:"column"`
	Formula        *tomlFormula `toml:"formula"`
}

type tomlFormula struct {
	Expression  string   `toml:"expression"`
	RecalcOrder []string `toml:"recalc_order"`
}

// ParseTOML decodes TOML catalog source. filename is used in errors only.
func ParseTOML(src []byte, filename string) (*Document, error) {
	var parsed tomlCatalogFile
	md, err := toml.Decode(string(src), &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filename, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("catalog %s: unknown key %q", filename, undecoded[0].String())
	}

	doc := &Document{}
	for _, pt := range parsed.PropertyTypes {
		lo, err := tomlNumber(pt.Min)
		if err != nil {
			return nil, fmt.Errorf("catalog %s, property type %q, min: %w", filename, pt.ID, err)
		}
		hi, err := tomlNumber(pt.Max)
		if err != nil {
			return nil, fmt.Errorf("catalog %s, property type %q, max: %w", filename, pt.ID, err)
		}
		doc.PropertyTypes = append(doc.PropertyTypes, PropertyTypeDecl{
			ID:          pt.ID,
			Kind:        pt.Kind,
			Units:       pt.Units,
			Min:         lo,
			Max:         hi,
			MaxLength:   pt.MaxLength,
			NonNegative: pt.NonNegative,
		})
	}
	doc.CommonColumns, err = tomlColumns(parsed.CommonColumns)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", filename, err)
	}
	for _, a := range parsed.Actions {
		cols, err := tomlColumns(a.Columns)
		if err != nil {
			return nil, fmt.Errorf("catalog %s, action %q: %w", filename, a.Name, err)
		}
		ad := ActionDecl{
			Name:           a.Name,
			ID:             a.ID,
			DeployDuration: a.DeployDuration,
			Service:        a.Service,
			Columns:        cols,
		}
		if a.Formula != nil {
			ad.Formula = &FormulaDecl{Expression: a.Formula.Expression, RecalcOrder: a.Formula.RecalcOrder}
		}
		doc.Actions = append(doc.Actions, ad)
	}
	return doc, nil
}

func tomlColumns(cols []tomlColumn) ([]ColumnDecl, error) {
	out := make([]ColumnDecl, 0, len(cols))
	for _, c := range cols {
		def, err := tomlDefault(c.Default)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Key, err)
		}
		out = append(out, ColumnDecl{Key: c.Key, Type: c.Type, Group: c.Group, Default: def})
	}
	return out, nil
}

// tomlDefault maps a decoded TOML scalar onto a cty value.
func tomlDefault(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported default of type %T", v)
	}
}

func tomlNumber(v any) (*float64, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64:
		f := float64(x)
		return &f, nil
	case float64:
		return &x, nil
	default:
		return nil, fmt.Errorf("expected a number, got %T", v)
	}
}
