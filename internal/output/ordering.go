package output

import "sort"

// SortComponents sorts components by crateId ASC
func SortComponents(components []Component) {
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].CrateID < components[j].CrateID
	})
}

// SortItems sorts items by id ASC
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
}

// SortUsages sorts usages by file ASC, line ASC, column ASC, endLine ASC, endColumn ASC
func SortUsages(usages []Usage) {
	sort.SliceStable(usages, func(i, j int) bool {
		a, b := usages[i], usages[j]
		// Primary: file ASC
		if a.File != b.File {
			return a.File < b.File
		}
		// Secondary: begin position ASC
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		// Tertiary: end position ASC
		if a.EndLine != b.EndLine {
			return a.EndLine < b.EndLine
		}
		return a.EndColumn < b.EndColumn
	})
}

// SortReport applies the ordering contract to every level of r.
func SortReport(r *Report) {
	SortComponents(r.Components)
	for ci := range r.Components {
		items := r.Components[ci].Items
		SortItems(items)
		for ii := range items {
			SortUsages(items[ii].Usages)
		}
	}
}
