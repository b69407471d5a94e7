package forest

import (
	"fmt"
	"sort"
	"testing"

	"pgregory.net/rapid"

	"github.com/arborui/arbor/pkg/model"
)

// genForest draws a random forest with globally unique ids. Shape is
// controlled by per-node child counts; ids come from a running counter
// so uniqueness holds by construction.
func genForest(t *rapid.T) []model.TreeNode {
	next := 0
	var build func(depth int) model.TreeNode
	build = func(depth int) model.TreeNode {
		next++
		n := model.TreeNode{
			ID:    fmt.Sprintf("n%d", next),
			Label: rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "label"),
		}
		if depth < 3 {
			kids := rapid.IntRange(0, 3).Draw(t, "kids")
			for i := 0; i < kids; i++ {
				n.Children = append(n.Children, build(depth+1))
			}
		}
		return n
	}

	roots := rapid.IntRange(0, 4).Draw(t, "roots")
	var f []model.TreeNode
	for i := 0; i < roots; i++ {
		f = append(f, build(0))
	}
	return f
}

func pickID(t *rapid.T, f []model.TreeNode) string {
	ids := IDs(f)
	if len(ids) == 0 {
		return ""
	}
	return rapid.SampledFrom(ids).Draw(t, "id")
}

func sortedIDs(f []model.TreeNode) []string {
	ids := IDs(f)
	sort.Strings(ids)
	return ids
}

// TestPropRemoveNeverDuplicates checks that remove never introduces
// duplicate ids and removes the addressed id entirely.
func TestPropRemoveNeverDuplicates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genForest(t)
		id := pickID(t, f)
		if id == "" {
			t.Skip("empty forest")
		}

		out, removed := Remove(f, id)
		if removed == nil {
			t.Fatalf("id %q was present but not removed", id)
		}
		if Contains(out, id) {
			t.Fatalf("id %q still present after remove", id)
		}

		seen := make(map[string]bool)
		for _, v := range IDs(out) {
			if seen[v] {
				t.Fatalf("duplicate id %q after remove", v)
			}
			seen[v] = true
		}
	})
}

// TestPropMoveIsLossless checks the move identity: removing a subtree
// and reinserting it anywhere reproduces exactly the original id
// multiset.
func TestPropMoveIsLossless(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genForest(t)
		id := pickID(t, f)
		if id == "" {
			t.Skip("empty forest")
		}
		before := sortedIDs(f)

		rest, removed := Remove(f, id)
		if removed == nil {
			t.Fatal("picked id must be removable")
		}

		// Reinsert either at root or under any surviving node.
		parent := ""
		if survivors := IDs(rest); len(survivors) > 0 && rapid.Bool().Draw(t, "nested") {
			parent = rapid.SampledFrom(survivors).Draw(t, "parent")
		}
		out := InsertAsChild(rest, parent, *removed)

		after := sortedIDs(out)
		if len(after) != len(before) {
			t.Fatalf("move changed node count: %d -> %d", len(before), len(after))
		}
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("move changed id multiset at %d: %q vs %q", i, before[i], after[i])
			}
		}
	})
}

// TestPropMissingIDNoOps checks idempotent no-op targeting: operations
// addressed at an absent id return a structurally equal fresh forest.
func TestPropMissingIDNoOps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genForest(t)
		id := "absent-" + rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "suffix")

		if out := Relabel(f, id, "x"); !equalForests(out, f) {
			t.Fatal("relabel of absent id changed the forest")
		}
		if out := AttachChildren(f, id, []model.TreeNode{{ID: "k", Label: "k"}}); !equalForests(out, f) {
			t.Fatal("attach to absent id changed the forest")
		}
		if out := InsertAsChild(f, id, model.TreeNode{ID: "k", Label: "k"}); !equalForests(out, f) {
			t.Fatal("insert under absent parent changed the forest")
		}
		if out, removed := Remove(f, id); removed != nil || !equalForests(out, f) {
			t.Fatal("remove of absent id changed the forest")
		}
	})
}

// TestPropDeleteRemovesSubtreeAtomically checks that no descendant of a
// deleted node survives anywhere in the forest.
func TestPropDeleteRemovesSubtreeAtomically(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genForest(t)
		id := pickID(t, f)
		if id == "" {
			t.Skip("empty forest")
		}

		out, removed := Remove(f, id)
		if removed == nil {
			t.Fatal("picked id must be removable")
		}
		for _, gone := range IDs([]model.TreeNode{*removed}) {
			if Contains(out, gone) {
				t.Fatalf("descendant %q of deleted %q survived", gone, id)
			}
		}
	})
}

func equalForests(a, b []model.TreeNode) bool {
	ai, bi := IDs(a), IDs(b)
	if len(ai) != len(bi) {
		return false
	}
	for i := range ai {
		if ai[i] != bi[i] {
			return false
		}
	}
	// ids equal in pre-order; compare labels/placeholder state too
	eq := true
	Walk(a, func(n model.TreeNode, _ int) {
		m := Find(b, n.ID)
		if m == nil || m.Label != n.Label || m.IsPlaceholder() != n.IsPlaceholder() {
			eq = false
		}
	})
	return eq
}
