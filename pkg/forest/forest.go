// Package forest implements pure mutation operations over an ordered
// forest of tree nodes. Every operation takes the current forest and
// returns a fresh value; the input is never modified or aliased.
//
// All id-addressed operations act on the first match in pre-order
// traversal. Ids are expected to be globally unique, so the tie-break is
// only an edge-case guard. Missing ids resolve to silent no-ops: the
// returned forest is structurally unchanged but still a fresh value,
// because the addressed node may have been removed a moment earlier.
package forest

import "github.com/arborui/arbor/pkg/model"

// DuplicateIDs returns every id that appears more than once in the
// forest, in first-seen order. The engine itself tolerates duplicates
// (first pre-order match wins); this is a validation aid for hosts
// ingesting external state.
func DuplicateIDs(f []model.TreeNode) []string {
	seen := make(map[string]int)
	var dups []string
	for _, id := range IDs(f) {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}

// Clone deep-copies a forest.
func Clone(f []model.TreeNode) []model.TreeNode {
	if f == nil {
		return nil
	}
	out := make([]model.TreeNode, len(f))
	for i := range f {
		out[i] = f[i].Clone()
	}
	return out
}

// Remove excises the first node matching id, along with its entire
// subtree, and returns the removed subtree's root so callers can
// reinsert it elsewhere (this is how move works). The second return is
// nil when no node matched.
func Remove(f []model.TreeNode, id string) ([]model.TreeNode, *model.TreeNode) {
	out := Clone(f)
	out, removed := removeFirst(out, id)
	return out, removed
}

func removeFirst(f []model.TreeNode, id string) ([]model.TreeNode, *model.TreeNode) {
	for i := range f {
		if f[i].ID == id {
			removed := f[i]
			return append(f[:i], f[i+1:]...), &removed
		}
		children, removed := removeFirst(f[i].Children, id)
		if removed != nil {
			f[i].Children = children
			return f, removed
		}
	}
	return f, nil
}

// InsertAsChild appends node to the children of the first node matching
// parentID, creating the children sequence if absent. An empty parentID
// appends node as a new root. An unknown parentID returns the forest
// unchanged.
func InsertAsChild(f []model.TreeNode, parentID string, node model.TreeNode) []model.TreeNode {
	out := Clone(f)
	if parentID == "" {
		return append(out, node.Clone())
	}
	if p := findPtr(out, parentID); p != nil {
		p.Children = append(p.Children, node.Clone())
	}
	return out
}

// Relabel replaces the label of the first node matching id. No-op if the
// id is absent. Rejecting empty labels is the caller's concern.
func Relabel(f []model.TreeNode, id, label string) []model.TreeNode {
	out := Clone(f)
	if n := findPtr(out, id); n != nil {
		n.Label = label
	}
	return out
}

// AttachChildren sets or replaces the children sequence of the first
// node matching id. Used by the lazy-load completion path; attaching to
// a since-deleted id is a silent no-op.
func AttachChildren(f []model.TreeNode, id string, children []model.TreeNode) []model.TreeNode {
	out := Clone(f)
	if n := findPtr(out, id); n != nil {
		n.Children = Clone(children)
		if n.Children == nil {
			n.Children = []model.TreeNode{}
		}
	}
	return out
}

// Find returns a copy of the first node matching id, or nil.
func Find(f []model.TreeNode, id string) *model.TreeNode {
	for i := range f {
		if f[i].ID == id {
			n := f[i].Clone()
			return &n
		}
		if n := Find(f[i].Children, id); n != nil {
			return n
		}
	}
	return nil
}

// Contains reports whether any node in the forest has the given id.
func Contains(f []model.TreeNode, id string) bool {
	for i := range f {
		if f[i].ID == id || Contains(f[i].Children, id) {
			return true
		}
	}
	return false
}

// IsDescendant reports whether id names a strict descendant of the node
// with ancestorID. Used to refuse dropping a node onto its own subtree,
// which would otherwise detach the subtree from the root.
func IsDescendant(f []model.TreeNode, ancestorID, id string) bool {
	ancestor := findPtr(f, ancestorID)
	if ancestor == nil {
		return false
	}
	return Contains(ancestor.Children, id)
}

// Walk visits every node in pre-order, passing the node and its depth
// (0 for roots).
func Walk(f []model.TreeNode, fn func(n model.TreeNode, depth int)) {
	walk(f, 0, fn)
}

func walk(f []model.TreeNode, depth int, fn func(n model.TreeNode, depth int)) {
	for i := range f {
		fn(f[i], depth)
		walk(f[i].Children, depth+1, fn)
	}
}

// IDs returns every node id in pre-order. Duplicates, if a caller ever
// violated uniqueness, are preserved so tests can detect them.
func IDs(f []model.TreeNode) []string {
	var ids []string
	Walk(f, func(n model.TreeNode, _ int) {
		ids = append(ids, n.ID)
	})
	return ids
}

// findPtr returns a pointer to the first node matching id within f.
// Callers own f and may mutate through the pointer.
func findPtr(f []model.TreeNode, id string) *model.TreeNode {
	for i := range f {
		if f[i].ID == id {
			return &f[i]
		}
		if n := findPtr(f[i].Children, id); n != nil {
			return n
		}
	}
	return nil
}
