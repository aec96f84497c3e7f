package loop

import (
	"fmt"
	"math"
	"sort"

	"github.com/specialistvlad/recipegrid/internal/action"
	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/specialistvlad/recipegrid/internal/recipe"
)

// Config names the columns and limits the parser works with.
type Config struct {
	ActionColumn    string
	IterationColumn string
	MaxDepth        int
}

// Result is the outcome of parsing one recipe.
type Result struct {
	Tree Tree
	// IntegrityCompromised is set when a FOR or END FOR has no partner.
	IntegrityCompromised bool
	// TooDeep holds one *errs.StructuralError per loop nested past MaxDepth.
	TooDeep []error
}

// Parser finds loops using the catalog's FOR and END FOR service actions.
type Parser struct {
	cfg      Config
	forID    int16
	endForID int16
	enabled  bool
}

// NewParser resolves the loop service actions. A catalog without them yields
// a parser that never finds a loop.
func NewParser(repo action.Repository, cfg Config) *Parser {
	p := &Parser{cfg: cfg}
	forDef, errFor := repo.Service(action.RoleFor)
	endDef, errEnd := repo.Service(action.RoleEndFor)
	if errFor == nil && errEnd == nil {
		p.forID, p.endForID, p.enabled = forDef.ID, endDef.ID, true
	}
	return p
}

// open is a FOR seen during the walk.
type open struct {
	node    *Node
	parent  *open
	closed  bool
	tooDeep bool
}

// Parse walks the steps once and returns the loop tree.
func (p *Parser) Parse(r recipe.Recipe) Result {
	var res Result
	if !p.enabled {
		res.Tree = newTree(nil)
		return res
	}

	var stack []*open
	var seen []*open
	for i, step := range r.Steps() {
		id, err := step.ActionID(p.cfg.ActionColumn)
		if err != nil {
			continue
		}
		switch id {
		case p.forID:
			o := &open{node: &Node{Start: i, End: -1, Depth: len(stack) + 1, Iterations: p.iterations(step)}}
			if len(stack) > 0 {
				o.parent = stack[len(stack)-1]
			}
			stack = append(stack, o)
			seen = append(seen, o)
		case p.endForID:
			if len(stack) == 0 {
				res.IntegrityCompromised = true
				continue
			}
			o := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			o.closed = true
			o.node.End = i
			if o.node.Depth > p.cfg.MaxDepth {
				o.tooDeep = true
				res.TooDeep = append(res.TooDeep, &errs.StructuralError{
					Step:   o.node.Start,
					Reason: fmt.Sprintf("loop nesting depth %d exceeds the maximum of %d", o.node.Depth, p.cfg.MaxDepth),
				})
			}
		}
	}
	if len(stack) > 0 {
		res.IntegrityCompromised = true
	}

	res.Tree = assemble(seen)
	return res
}

// assemble attaches each kept loop to its nearest kept ancestor and renumbers
// depths to match the resulting tree.
func assemble(seen []*open) Tree {
	kept := func(o *open) bool { return o.closed && !o.tooDeep }
	var roots []*Node
	for _, o := range seen {
		if !kept(o) {
			continue
		}
		anc := o.parent
		for anc != nil && !kept(anc) {
			anc = anc.parent
		}
		if anc == nil {
			roots = append(roots, o.node)
		} else {
			anc.node.Children = append(anc.node.Children, o.node)
		}
	}

	var renumber func([]*Node, int)
	renumber = func(nodes []*Node, depth int) {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Start < nodes[j].Start })
		for _, n := range nodes {
			n.Depth = depth
			renumber(n.Children, depth+1)
		}
	}
	renumber(roots, 1)
	return newTree(roots)
}

// iterations reads the repeat count from a FOR step, defaulting to 1.
func (p *Parser) iterations(step recipe.Step) int {
	prop, ok := step.Property(p.cfg.IterationColumn)
	if !ok {
		return 1
	}
	n, ok := prop.Number()
	if !ok || n < 1 || math.IsNaN(n) {
		return 1
	}
	return int(math.Floor(n))
}
