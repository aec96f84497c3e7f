package loop

import "time"

// Node is one closed loop.
type Node struct {
	// Start and End are the indices of the FOR and END FOR steps.
	Start int
	End   int
	// Depth is 1 for a top-level loop.
	Depth int
	// Iterations is the FOR step's repeat count, at least 1.
	Iterations int
	// SingleIterationDuration is the time one pass through the loop takes,
	// nested loops included with their own repetition. Only meaningful when
	// Timed is true.
	SingleIterationDuration time.Duration
	Timed                   bool
	Children                []*Node
}

// Contains reports whether step index i lies within the loop, FOR and END FOR included.
func (n *Node) Contains(i int) bool { return i >= n.Start && i <= n.End }

// Tree is the set of well-formed loops in a recipe.
type Tree struct {
	Roots []*Node
	// enclosing[i] lists the loops containing step i, outermost first.
	enclosing map[int][]*Node
}

// EnclosingLoops returns the loops containing step i, outermost first and
// deepest last.
func (t Tree) EnclosingLoops(i int) []*Node {
	return append([]*Node(nil), t.enclosing[i]...)
}

// Clone returns a deep copy of the tree. Nodes of the copy share no memory
// with t.
func (t Tree) Clone() Tree {
	var clone func([]*Node) []*Node
	clone = func(nodes []*Node) []*Node {
		if len(nodes) == 0 {
			return nil
		}
		out := make([]*Node, 0, len(nodes))
		for _, n := range nodes {
			cp := *n
			cp.Children = clone(n.Children)
			out = append(out, &cp)
		}
		return out
	}
	return newTree(clone(t.Roots))
}

// Empty reports whether the tree holds no loops.
func (t Tree) Empty() bool { return len(t.Roots) == 0 }

// Walk visits every node parents first, in step order.
func (t Tree) Walk(fn func(*Node)) {
	var visit func([]*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			fn(n)
			visit(n.Children)
		}
	}
	visit(t.Roots)
}

// WithDurations returns a copy of the tree with every node's single iteration
// duration computed from the per-step contributions.
func (t Tree) WithDurations(contributions []time.Duration) Tree {
	var timed func([]*Node) []*Node
	timed = func(nodes []*Node) []*Node {
		if len(nodes) == 0 {
			return nil
		}
		out := make([]*Node, 0, len(nodes))
		for _, n := range nodes {
			cp := *n
			cp.Children = timed(n.Children)
			cp.SingleIterationDuration = singleIteration(&cp, contributions)
			cp.Timed = true
			out = append(out, &cp)
		}
		return out
	}
	return newTree(timed(t.Roots))
}

// singleIteration sums one pass through n: plain body steps once, nested
// loops times their own iteration count. Children must already be timed.
func singleIteration(n *Node, contributions []time.Duration) time.Duration {
	var total time.Duration
	child := 0
	for i := n.Start; i <= n.End && i < len(contributions); i++ {
		if child < len(n.Children) && n.Children[child].Start == i {
			c := n.Children[child]
			total += c.SingleIterationDuration * time.Duration(c.Iterations)
			i = c.End
			child++
			continue
		}
		total += contributions[i]
	}
	return total
}

// newTree indexes roots by the steps they enclose.
func newTree(roots []*Node) Tree {
	t := Tree{Roots: roots, enclosing: make(map[int][]*Node)}
	t.Walk(func(n *Node) {
		for i := n.Start; i <= n.End; i++ {
			t.enclosing[i] = append(t.enclosing[i], n)
		}
	})
	return t
}
