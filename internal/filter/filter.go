// Package filter derives the visible subset of a tagged list from a selected category.
package filter

import "slices"

// All selects every item regardless of tags.
const All = "all"

// Taggable is anything carrying zero or more category tags.
type Taggable interface {
	Tags() []string
}

// Apply returns the items whose tags contain selection, in source order.
// Selecting All (or nothing) returns items itself. Items without tags only
// match All. The input slice is never modified.
func Apply[T Taggable](items []T, selection string) []T {
	if selection == "" || selection == All {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if slices.Contains(item.Tags(), selection) {
			out = append(out, item)
		}
	}
	return out
}

// Unique returns the distinct tags across items in first-seen order.
func Unique[T Taggable](items []T) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, item := range items {
		for _, tag := range item.Tags() {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// Option is one selectable filter button.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Options builds the filter buttons: the All option first, then one per tag.
// labeler maps a tag to its display label; nil uses the tag itself.
func Options(selection, allLabel string, tags []string, labeler func(string) string) []Option {
	if selection == "" {
		selection = All
	}
	opts := make([]Option, 0, len(tags)+1)
	opts = append(opts, Option{Value: All, Label: allLabel, Active: selection == All})
	for _, tag := range tags {
		label := tag
		if labeler != nil {
			label = labeler(tag)
		}
		opts = append(opts, Option{Value: tag, Label: label, Active: selection == tag})
	}
	return opts
}
