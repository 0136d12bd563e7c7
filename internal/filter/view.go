package filter

// View holds a source list, the selected category, and the derived visible
// list. The visible list is recomputed whenever either input changes.
type View[T Taggable] struct {
	items     []T
	selection string
	visible   []T
}

// NewView returns a view over items with All selected.
func NewView[T Taggable](items []T) *View[T] {
	v := &View[T]{items: items, selection: All}
	v.recompute()
	return v
}

// SetItems replaces the source list.
func (v *View[T]) SetItems(items []T) {
	v.items = items
	v.recompute()
}

// Select changes the selected category. An empty selection means All.
func (v *View[T]) Select(selection string) {
	if selection == "" {
		selection = All
	}
	v.selection = selection
	v.recompute()
}

// Selection returns the selected category.
func (v *View[T]) Selection() string { return v.selection }

// Items returns the unfiltered source list.
func (v *View[T]) Items() []T { return v.items }

// Visible returns the items matching the selection.
func (v *View[T]) Visible() []T { return v.visible }

func (v *View[T]) recompute() {
	v.visible = Apply(v.items, v.selection)
}
