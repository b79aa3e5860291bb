package inventory

import (
	"fmt"

	"repo-archiver/internal/github"
)

// Inventory holds the fetched candidate repositories and their selection
// flags. The record list is fixed at construction in listing order; only the
// flags change, and only while the selection screen is active.
type Inventory struct {
	repos    []github.Repo
	selected []bool
}

func New(repos []github.Repo) *Inventory {
	return &Inventory{
		repos:    repos,
		selected: make([]bool, len(repos)),
	}
}

func (inv *Inventory) Len() int { return len(inv.repos) }

func (inv *Inventory) At(i int) github.Repo { return inv.repos[i] }

func (inv *Inventory) IsSelected(i int) bool { return inv.selected[i] }

// Toggle flips the selection flag at i. The caller clamps its cursor to
// [0, Len); an out-of-range index here is a bug, not an input error.
func (inv *Inventory) Toggle(i int) {
	if i < 0 || i >= len(inv.repos) {
		panic(fmt.Sprintf("inventory: toggle index %d out of range [0,%d)", i, len(inv.repos)))
	}
	inv.selected[i] = !inv.selected[i]
}

func (inv *Inventory) SelectedCount() int {
	n := 0
	for _, s := range inv.selected {
		if s {
			n++
		}
	}
	return n
}

// Target pairs a selected repository with its row index.
type Target struct {
	Index int
	Repo  github.Repo
}

// Selected returns the selected repositories in record order.
func (inv *Inventory) Selected() []Target {
	var out []Target
	for i, s := range inv.selected {
		if s {
			out = append(out, Target{Index: i, Repo: inv.repos[i]})
		}
	}
	return out
}
