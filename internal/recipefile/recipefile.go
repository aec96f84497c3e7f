// Package recipefile reads and writes recipes as HCL. It sits outside the
// engine: the engine only ever sees the recipe.Recipe values it produces.
//
// Each step is a block labelled with its action name, holding one attribute
// per column that differs from, or should be pinned over, the action default:
//
//	step "wait" {
//	  step_duration = 30
//	  comment       = "settle"
//	}
//
//	step "for" {
//	  iterations = 3
//	}
package recipefile

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/specialistvlad/recipegrid/internal/property"
	"github.com/specialistvlad/recipegrid/internal/recipe"
	"github.com/zclconf/go-cty/cty"
)

type hclRecipeFile struct {
	Steps []*hclStep `hcl:"step,block"`
}

type hclStep struct {
	Action string   `hcl:"action,label"`
	Body   hcl.Body `hcl:",remain"`
}

// Codec converts between recipes and HCL for one catalog.
type Codec struct {
	actions      action.Repository
	actionColumn string
}

// New creates a Codec. actionColumn is the step key holding the action id;
// it is expressed by the block label and never written as an attribute.
func New(repo action.Repository, actionColumn string) *Codec {
	return &Codec{actions: repo, actionColumn: actionColumn}
}

// ReadFile parses the recipe stored at path.
func (c *Codec) ReadFile(path string) (recipe.Recipe, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return recipe.Recipe{}, err
	}
	return c.Parse(src, path)
}

// Parse decodes recipe source. filename is used in diagnostics only.
func (c *Codec) Parse(src []byte, filename string) (recipe.Recipe, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return recipe.Recipe{}, fmt.Errorf("failed to parse recipe %s: %w", filename, diags)
	}
	var parsed hclRecipeFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return recipe.Recipe{}, fmt.Errorf("failed to decode recipe %s: %w", filename, diags)
	}

	steps := make([]recipe.Step, 0, len(parsed.Steps))
	for i, ps := range parsed.Steps {
		step, err := c.decodeStep(ps)
		if err != nil {
			return recipe.Recipe{}, fmt.Errorf("recipe %s, step %d (%s): %w", filename, i, ps.Action, err)
		}
		steps = append(steps, step)
	}
	return recipe.New(steps...), nil
}

func (c *Codec) decodeStep(ps *hclStep) (recipe.Step, error) {
	def, err := c.actions.ByName(ps.Action)
	if err != nil {
		return recipe.Step{}, err
	}
	step, err := recipe.NewStep(def)
	if err != nil {
		return recipe.Step{}, err
	}

	attrs, diags := ps.Body.JustAttributes()
	if diags.HasErrors() {
		return recipe.Step{}, diags
	}
	// Sorted so the first reported error does not depend on map order.
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == c.actionColumn {
			return recipe.Step{}, fmt.Errorf("%q is given by the block label", name)
		}
		current, ok := step.Property(name)
		if !ok {
			return recipe.Step{}, fmt.Errorf("%w: %q", errs.ErrColumnNotFound, name)
		}
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return recipe.Step{}, diags
		}
		v, err := current.Definition().FromCty(val)
		if err != nil {
			return recipe.Step{}, fmt.Errorf("column %q: %w", name, err)
		}
		next, err := current.WithValue(v)
		if err != nil {
			return recipe.Step{}, fmt.Errorf("column %q: %w", name, err)
		}
		if step, err = step.With(name, next); err != nil {
			return recipe.Step{}, err
		}
	}
	return step, nil
}

// Write renders r as HCL. Every column except the action selector is written.
func (c *Codec) Write(w io.Writer, r recipe.Recipe) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, step := range r.Steps() {
		id, err := step.ActionID(c.actionColumn)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		def, err := c.actions.ByID(id)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("step", []string{def.Name}).Body()
		for _, key := range step.Columns() {
			if key == c.actionColumn {
				continue
			}
			p, _ := step.Property(key)
			val, err := ctyValue(p.Value())
			if err != nil {
				return fmt.Errorf("step %d, column %q: %w", i, key, err)
			}
			block.SetAttributeValue(key, val)
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// ctyValue converts a property value for hclwrite. Floats go through their
// shortest decimal form so 0.1 is written as 0.1 and not its float64 widening.
func ctyValue(v property.Value) (cty.Value, error) {
	switch v.Kind() {
	case property.KindText:
		return cty.StringVal(v.String()), nil
	case property.KindInteger16, property.KindFloat32:
		return cty.ParseNumberVal(v.String())
	default:
		return cty.NilVal, fmt.Errorf("%w: invalid value", errs.ErrTypeMismatch)
	}
}
