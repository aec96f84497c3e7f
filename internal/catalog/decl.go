package catalog

import "github.com/zclconf/go-cty/cty"

// Document is the format-agnostic content of one or more catalog files.
type Document struct {
	PropertyTypes []PropertyTypeDecl
	CommonColumns []ColumnDecl
	Actions       []ActionDecl
}

// PropertyTypeDecl declares one property type.
type PropertyTypeDecl struct {
	ID          string
	Kind        string
	Units       string
	Min         *float64
	Max         *float64
	MaxLength   int
	NonNegative bool
}

// ColumnDecl declares one column. A null Default means the type's zero value,
// clamped into its range.
type ColumnDecl struct {
	Key     string
	Type    string
	Group   string
	Default cty.Value
}

// ActionDecl declares one action.
type ActionDecl struct {
	Name           string
	ID             int
	DeployDuration string
	Service        string
	Columns        []ColumnDecl
	Formula        *FormulaDecl
}

// FormulaDecl declares an action's equation.
type FormulaDecl struct {
	Expression  string
	RecalcOrder []string
}

// Merge appends other's declarations to s.
func (s *Document) Merge(other *Document) {
	s.PropertyTypes = append(s.PropertyTypes, other.PropertyTypes...)
	s.CommonColumns = append(s.CommonColumns, other.CommonColumns...)
	s.Actions = append(s.Actions, other.Actions...)
}
