package output

import (
	"io"

	"pubcrates/internal/analyze"
	"pubcrates/internal/errors"
	"pubcrates/internal/rustdoc"
)

// DefaultMaxUsages is the number of usage lines shown per item.
const DefaultMaxUsages = 3

// BuildReport resolves result against crate. Every component must have an
// external crate registry entry and every item a path table entry.
func BuildReport(crate *rustdoc.Crate, result *analyze.Result) (*Report, error) {
	report := &Report{
		Crate:      crate.Name(),
		Components: make([]Component, 0, len(result.Components)),
	}

	for _, crateID := range result.ComponentIDs() {
		name, ok := crate.ExternalCrateName(crateID)
		if !ok {
			return nil, errors.Newf(errors.DataIntegrity, nil,
				"external crate %d is not in the crate registry", crateID).
				WithDetails(map[string]interface{}{"crateId": crateID})
		}

		ids := result.Components[crateID].Sorted()
		component := Component{
			CrateID: crateID,
			Name:    name,
			Items:   make([]Item, 0, len(ids)),
		}
		for _, id := range ids {
			path, ok := crate.DisplayPath(id)
			if !ok {
				return nil, errors.Newf(errors.DataIntegrity, nil,
					"item %s of crate %s has no path entry", id, name).
					WithDetails(map[string]interface{}{"id": string(id), "crate": name})
			}
			item := Item{ID: string(id), Path: path}
			for _, span := range result.Usages[id].Sorted() {
				item.Usages = append(item.Usages, Usage{
					File:      span.Filename,
					Line:      span.Begin.Line,
					Column:    span.Begin.Column,
					EndLine:   span.End.Line,
					EndColumn: span.End.Column,
				})
			}
			component.Items = append(component.Items, item)
		}
		report.Components = append(report.Components, component)
	}

	SortReport(report)
	return report, nil
}

// Tree converts the report to one tree per component. Each item shows at
// most maxUsages usage lines; zero or less shows all.
func (r *Report) Tree(maxUsages int) []Node {
	roots := make([]Node, 0, len(r.Components))
	for _, c := range r.Components {
		root := Node{Label: c.Name, Children: make([]Node, 0, len(c.Items))}
		for _, item := range c.Items {
			node := Node{Label: item.Path, Limit: maxUsages}
			for _, u := range item.Usages {
				node.Children = append(node.Children, Node{Label: u.String()})
			}
			root.Children = append(root.Children, node)
		}
		roots = append(roots, root)
	}
	return roots
}

// WriteHuman renders the report as text trees.
func WriteHuman(out io.Writer, r *Report, indent, maxUsages int) error {
	return Render(NewWriter(out, indent), r.Tree(maxUsages))
}
