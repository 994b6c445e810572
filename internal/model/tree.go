package model

import (
	"errors"
	"fmt"
	"sort"

	"scoringd/internal/tabular"
)

type treeNode struct {
	leaf        bool
	value       float64
	feature     string
	categorical bool
	threshold   float64
	categories  map[string]struct{}
	left, right int
	missingLeft bool
}

type tree []treeNode

// treeEnsemble sums base_score and one leaf per tree.
type treeEnsemble struct {
	precision string
	base      float64
	trees     []tree
	inputs    []Feature
}

func buildTreeEnsemble(doc *Document) (regressor, error) {
	spec := doc.TreeEnsemble
	if spec == nil {
		return nil, errors.New("kind tree_ensemble requires a tree_ensemble section")
	}
	te := &treeEnsemble{precision: doc.Precision, base: spec.BaseScore}
	kinds := map[string]string{}
	for ti, ts := range spec.Trees {
		t, err := compileTree(ts)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
		for _, n := range t {
			if n.leaf {
				continue
			}
			k := "numeric"
			if n.categorical {
				k = "categorical"
			}
			if prev, ok := kinds[n.feature]; ok && prev != k {
				return nil, fmt.Errorf("tree %d: feature %q split both as numeric and categorical", ti, n.feature)
			}
			kinds[n.feature] = k
		}
		te.trees = append(te.trees, t)
	}
	for name, k := range kinds {
		te.inputs = append(te.inputs, Feature{Name: name, Type: k})
	}
	sort.Slice(te.inputs, func(i, j int) bool { return te.inputs[i].Name < te.inputs[j].Name })
	return te, nil
}

func compileTree(ts TreeSpec) (tree, error) {
	t := make(tree, len(ts.Nodes))
	for i, ns := range ts.Nodes {
		if ns.Leaf != nil {
			if ns.Left != nil || ns.Right != nil || ns.Feature != "" {
				return nil, fmt.Errorf("node %d: leaf must not carry a split", i)
			}
			t[i] = treeNode{leaf: true, value: *ns.Leaf}
			continue
		}
		if ns.Feature == "" {
			return nil, fmt.Errorf("node %d: split without feature", i)
		}
		if ns.Left == nil || ns.Right == nil {
			return nil, fmt.Errorf("node %d: split needs left and right children", i)
		}
		if (ns.Threshold == nil) == (len(ns.Categories) == 0) {
			return nil, fmt.Errorf("node %d: split needs exactly one of threshold or categories", i)
		}
		n := treeNode{
			feature:     ns.Feature,
			left:        *ns.Left,
			right:       *ns.Right,
			missingLeft: ns.Missing != "right",
		}
		if ns.Threshold != nil {
			n.threshold = *ns.Threshold
		} else {
			n.categorical = true
			n.categories = make(map[string]struct{}, len(ns.Categories))
			for _, c := range ns.Categories {
				n.categories[c] = struct{}{}
			}
		}
		for _, c := range []int{n.left, n.right} {
			if c <= 0 || c >= len(ts.Nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, c)
			}
		}
		t[i] = n
	}
	// Every node must be reached exactly once from the root.
	seen := make([]bool, len(t))
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[i] {
			return nil, fmt.Errorf("node %d reached twice", i)
		}
		seen[i] = true
		if !t[i].leaf {
			stack = append(stack, t[i].left, t[i].right)
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("node %d is unreachable", i)
		}
	}
	return t, nil
}

func (t tree) leafFor(rec tabular.Record) (float64, error) {
	i := 0
	for !t[i].leaf {
		n := &t[i]
		goLeft, err := n.routeLeft(rec)
		if err != nil {
			return 0, err
		}
		if goLeft {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t[i].value, nil
}

func (n *treeNode) routeLeft(rec tabular.Record) (bool, error) {
	if n.categorical {
		raw, err := rawValue(rec, n.feature)
		if err != nil {
			return false, err
		}
		if raw == "" {
			return n.missingLeft, nil
		}
		_, in := n.categories[raw]
		return in, nil
	}
	x, ok, err := numericValue(rec, n.feature)
	if err != nil {
		return false, err
	}
	if !ok {
		return n.missingLeft, nil
	}
	return x < n.threshold, nil
}

func (te *treeEnsemble) score(rec tabular.Record) (float64, error) {
	acc := newAccumulator(te.precision, te.base)
	for i, t := range te.trees {
		v, err := t.leafFor(rec)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		acc.add(v)
	}
	return acc.value(), nil
}

func (te *treeEnsemble) features() []Feature { return te.inputs }
