// Package testkit checks the structural invariants code generation relies
// on. The generator itself assumes them; `quanta check` and the tests use
// this package to verify them.
package testkit

import (
	"errors"
	"fmt"

	"quanta/internal/blocks"
	"quanta/internal/diag"
	"quanta/internal/source"
)

type link struct {
	from   blocks.ID // NoID for roots
	inline bool
}

// CheckTree reports every violation to r and returns true when the tree is
// sound:
//  1. every link points at a block of the arena
//  2. every block has at most one owner (root list, Next, value input or
//     label body)
//  3. Parent and Inline agree with the owner
//  4. no chain or input loops back on itself
func CheckTree(tree *blocks.Tree, r diag.Reporter) bool {
	if r == nil {
		r = diag.NopReporter{}
	}
	ok := true
	report := func(code diag.Code, id blocks.ID, format string, args ...any) {
		ok = false
		var sp source.Span
		if blk := tree.Get(id); blk != nil {
			sp = blk.Span
		}
		diag.ReportError(r, code, sp, fmt.Sprintf(format, args...)).Emit()
	}

	owners := make(map[blocks.ID][]link, tree.Len())
	addLink := func(from, to blocks.ID, inline bool) {
		if !to.IsValid() {
			return
		}
		if tree.Get(to) == nil {
			report(diag.TreeDanglingLink, from, "link to unknown block %d", to)
			return
		}
		owners[to] = append(owners[to], link{from: from, inline: inline})
	}
	for _, root := range tree.Roots {
		addLink(blocks.NoID, root, false)
	}
	for _, id := range tree.IDs() {
		blk := tree.Get(id)
		addLink(id, blk.Next, false)
		if blk.Shape == nil {
			continue
		}
		for _, child := range blk.Shape.ValueInputs() {
			addLink(id, child, true)
		}
		if lg, isGroup := blk.Shape.(blocks.LabelGroup); isGroup {
			addLink(id, lg.Body, false)
		}
	}

	for _, id := range tree.IDs() {
		refs := owners[id]
		if len(refs) > 1 {
			report(diag.TreeSharedChild, id, "block %d has %d owners", id, len(refs))
			continue
		}
		blk := tree.Get(id)
		if len(refs) == 0 {
			continue
		}
		if owner := refs[0]; blk.Parent != owner.from || blk.Inline != owner.inline {
			report(diag.TreeBadParent, id, "block %d: parent %d inline %v, owner %d inline %v",
				id, blk.Parent, blk.Inline, owner.from, owner.inline)
		}
	}

	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, tree.Len()+1)
	var visit func(id blocks.ID) bool
	visit = func(id blocks.ID) bool {
		blk := tree.Get(id)
		if blk == nil {
			return true
		}
		switch color[id] {
		case grey:
			report(diag.TreeCycle, id, "block %d is reachable from itself", id)
			return false
		case black:
			return true
		}
		color[id] = grey
		next := []blocks.ID{blk.Next}
		if blk.Shape != nil {
			next = append(next, blk.Shape.ValueInputs()...)
			if lg, isGroup := blk.Shape.(blocks.LabelGroup); isGroup {
				next = append(next, lg.Body)
			}
		}
		for _, n := range next {
			if !visit(n) {
				return false
			}
		}
		color[id] = black
		return true
	}
	for _, id := range tree.IDs() {
		if color[id] == white {
			visit(id)
		}
	}
	return ok
}

// CheckTreeInvariants returns the violations found by CheckTree as one
// error, or nil.
func CheckTreeInvariants(tree *blocks.Tree) error {
	bag := diag.NewBag(0)
	if CheckTree(tree, diag.BagReporter{Bag: bag}) {
		return nil
	}
	errs := make([]error, 0, bag.Len())
	for _, d := range bag.Items() {
		errs = append(errs, fmt.Errorf("%s: %s", d.Code.ID(), d.Message))
	}
	return errors.Join(errs...)
}
