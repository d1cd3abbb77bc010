package projection

import (
	"github.com/goliatone/go-newsnet/content"
	"github.com/goliatone/go-newsnet/store"
)

// BuildTree arranges category rows into parent/children nodes, keeping the
// row order among siblings. A node is a root when it has no parent_id or when
// its parent is not among rows. Duplicate ids keep the first occurrence.
// The input is assumed acyclic; nodes on a cycle are unreachable from any
// root and are left out.
func BuildTree(rows []store.Row, site Site) []*content.CategoryNode {
	nodes := make(map[int64]*content.CategoryNode, len(rows))
	order := make([]*content.CategoryNode, 0, len(rows))

	for _, r := range rows {
		c := Category(r, site)
		if _, dup := nodes[c.ID]; dup {
			continue
		}
		n := &content.CategoryNode{
			Category: c,
			ParentID: r.OptionalInt64("parent_id"),
			Children: []*content.CategoryNode{},
		}
		nodes[c.ID] = n
		order = append(order, n)
	}

	roots := make([]*content.CategoryNode, 0, len(order))
	for _, n := range order {
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// Walk visits every node depth-first, parents before children.
func Walk(roots []*content.CategoryNode, fn func(*content.CategoryNode)) {
	for _, n := range roots {
		fn(n)
		Walk(n.Children, fn)
	}
}
