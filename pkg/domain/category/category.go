// Package category models the self-referencing tree of expense categories
// used to itemize voucher details.
package category

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when the parent links form a loop.
var ErrCycle = errors.New("category tree contains a cycle")

// Category is a node of the expense category tree. Roots have a nil ParentID.
type Category struct {
	ID          uint   `json:"id"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parentId"`
}

// Node is a category with its children attached.
type Node struct {
	Category
	Children []*Node `json:"children"`
}

// BuildTree groups the flat list under parentID (nil for the roots) and
// recursively attaches every item's children. Items are indexed by parent
// once; a parent reached twice on the same path is reported as ErrCycle.
func BuildTree(items []Category, parentID *uint) ([]*Node, error) {
	byParent := make(map[uint][]Category, len(items))
	var roots []Category
	for _, it := range items {
		if it.ParentID == nil {
			roots = append(roots, it)
			continue
		}
		byParent[*it.ParentID] = append(byParent[*it.ParentID], it)
	}

	level := roots
	if parentID != nil {
		level = byParent[*parentID]
	}
	onPath := make(map[uint]bool)
	if parentID != nil {
		onPath[*parentID] = true
	}
	return attach(level, byParent, onPath)
}

func attach(level []Category, byParent map[uint][]Category, onPath map[uint]bool) ([]*Node, error) {
	nodes := make([]*Node, 0, len(level))
	for _, c := range level {
		if onPath[c.ID] {
			return nil, fmt.Errorf("%w: category %d", ErrCycle, c.ID)
		}
		onPath[c.ID] = true
		children, err := attach(byParent[c.ID], byParent, onPath)
		delete(onPath, c.ID)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &Node{Category: c, Children: children})
	}
	return nodes, nil
}
