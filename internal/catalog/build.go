package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/formula"
	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/zclconf/go-cty/cty"
)

// ActionTypeID is the property type of the action selector column. It is
// registered automatically when a catalog does not declare it.
const ActionTypeID = "action"

// Loaded is a built catalog.
type Loaded struct {
	Actions    *action.Catalog
	Properties *property.Registry
}

// Build validates doc and assembles the catalog. actionColumn is the key the
// action selector column is stored under on every step.
func Build(doc *Document, actionColumn string) (*Loaded, error) {
	reg, err := buildRegistry(doc.PropertyTypes)
	if err != nil {
		return nil, err
	}

	var errs []string
	mandatory := []string{actionColumn}
	for _, c := range doc.CommonColumns {
		mandatory = append(mandatory, c.Key)
	}

	defs := make([]*action.Definition, 0, len(doc.Actions))
	for _, ad := range doc.Actions {
		def, err := buildAction(ad, doc.CommonColumns, reg, actionColumn)
		if err != nil {
			errs = append(errs, fmt.Sprintf("action %q: %v", ad.Name, err))
			continue
		}
		defs = append(defs, def)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	cat, err := action.NewCatalog(defs, mandatory)
	if err != nil {
		return nil, err
	}
	return &Loaded{Actions: cat, Properties: reg}, nil
}

func buildRegistry(types []PropertyTypeDecl) (*property.Registry, error) {
	reg, err := property.NewRegistry()
	if err != nil {
		return nil, err
	}
	hasAction := false
	for _, pt := range types {
		kind, ok := property.ParseKind(pt.Kind)
		if !ok {
			return nil, fmt.Errorf("property type %q: unknown kind %q", pt.ID, pt.Kind)
		}
		if pt.Min != nil && pt.Max != nil && *pt.Min > *pt.Max {
			return nil, fmt.Errorf("property type %q: min %v is greater than max %v", pt.ID, *pt.Min, *pt.Max)
		}
		if err := reg.Register(&property.TypeDefinition{
			ID:          pt.ID,
			Kind:        kind,
			Units:       pt.Units,
			Min:         pt.Min,
			Max:         pt.Max,
			MaxLength:   pt.MaxLength,
			NonNegative: pt.NonNegative,
		}); err != nil {
			return nil, err
		}
		hasAction = hasAction || pt.ID == ActionTypeID
	}
	if !hasAction {
		lowest := 0.0
		if err := reg.Register(&property.TypeDefinition{ID: ActionTypeID, Kind: property.KindInteger16, Min: &lowest}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func buildAction(ad ActionDecl, common []ColumnDecl, reg *property.Registry, actionColumn string) (*action.Definition, error) {
	if ad.Name == "" {
		return nil, errors.New("name is required")
	}
	if ad.ID < 0 || ad.ID > math.MaxInt16 {
		return nil, fmt.Errorf("id %d does not fit in int16", ad.ID)
	}
	deploy := action.Immediate
	if ad.DeployDuration != "" {
		var ok bool
		if deploy, ok = action.ParseDeployDuration(ad.DeployDuration); !ok {
			return nil, fmt.Errorf("unknown deploy_duration %q", ad.DeployDuration)
		}
	}
	role, ok := action.ParseServiceRole(ad.Service)
	if !ok {
		return nil, fmt.Errorf("unknown service %q", ad.Service)
	}

	def := &action.Definition{
		ID:             int16(ad.ID),
		Name:           ad.Name,
		DeployDuration: deploy,
		Service:        role,
	}

	selector := ColumnDecl{Key: actionColumn, Type: ActionTypeID, Default: cty.NumberIntVal(int64(ad.ID))}
	all, err := mergeColumns(selector, common, ad.Columns)
	if err != nil {
		return nil, err
	}
	for _, cd := range all {
		col, err := buildColumn(cd, reg)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", cd.Key, err)
		}
		def.Columns = append(def.Columns, col)
	}

	if ad.Formula != nil {
		def.Formula = &action.Formula{
			Expression:  ad.Formula.Expression,
			RecalcOrder: append([]string(nil), ad.Formula.RecalcOrder...),
		}
		if err := formula.Check(def); err != nil {
			return nil, err
		}
	}
	return def, nil
}

// mergeColumns orders an action's columns: the selector, the common columns,
// then the action's own. An own column may redeclare a common column of the
// same type to override its default in place.
func mergeColumns(selector ColumnDecl, common, own []ColumnDecl) ([]ColumnDecl, error) {
	all := append([]ColumnDecl{selector}, common...)
	index := make(map[string]int, len(all)+len(own))
	for i, cd := range all {
		if _, dup := index[cd.Key]; dup {
			return nil, fmt.Errorf("column %q declared more than once", cd.Key)
		}
		index[cd.Key] = i
	}
	overridden := make(map[string]bool)
	for _, cd := range own {
		i, exists := index[cd.Key]
		switch {
		case !exists:
			index[cd.Key] = len(all)
			all = append(all, cd)
		case i == 0:
			return nil, fmt.Errorf("column %q is reserved for the action selector", cd.Key)
		case i <= len(common) && !overridden[cd.Key]:
			if all[i].Type != cd.Type {
				return nil, fmt.Errorf("column %q overrides common column of type %q with type %q", cd.Key, all[i].Type, cd.Type)
			}
			overridden[cd.Key] = true
			all[i] = cd
		default:
			return nil, fmt.Errorf("column %q declared more than once", cd.Key)
		}
	}
	return all, nil
}

func buildColumn(cd ColumnDecl, reg *property.Registry) (action.Column, error) {
	td, err := reg.Lookup(cd.Type)
	if err != nil {
		return action.Column{}, err
	}
	var value property.Value
	if cd.Default.IsNull() {
		value = zeroValue(td)
	} else if value, err = td.FromCty(cd.Default); err != nil {
		return action.Column{}, err
	}
	def, err := property.New(value, td)
	if err != nil {
		return action.Column{}, fmt.Errorf("default: %w", err)
	}
	return action.Column{Key: cd.Key, TypeID: cd.Type, Group: cd.Group, Default: def}, nil
}

// zeroValue is the kind's zero, moved into the type's range.
func zeroValue(td *property.TypeDefinition) property.Value {
	n := 0.0
	if td.Min != nil && n < *td.Min {
		n = *td.Min
	}
	if td.Max != nil && n > *td.Max {
		n = *td.Max
	}
	switch td.Kind {
	case property.KindText:
		return property.Text("")
	case property.KindInteger16:
		return property.Int16(int16(math.Ceil(n)))
	default:
		return property.Float32(float32(n))
	}
}
