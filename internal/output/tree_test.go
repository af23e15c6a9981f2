package output

import (
	"reflect"
	"testing"
)

func labels(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Label)
	}
	return out
}

func TestNode_Visible(t *testing.T) {
	five := []Node{{Label: "1"}, {Label: "2"}, {Label: "3"}, {Label: "4"}, {Label: "5"}}

	tests := []struct {
		name string
		node Node
		want []string
	}{
		{"no limit", Node{Children: five}, []string{"1", "2", "3", "4", "5"}},
		{"truncated", Node{Children: five, Limit: 3}, []string{"1", "2", "3", "and 2 more..."}},
		{"exactly at limit", Node{Children: five[:3], Limit: 3}, []string{"1", "2", "3"}},
		{"under limit", Node{Children: five[:1], Limit: 3}, []string{"1"}},
		{"one over", Node{Children: five[:4], Limit: 3}, []string{"1", "2", "3", "and 1 more..."}},
		{"no children", Node{Limit: 3}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labels(tt.node.Visible()); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNode_VisibleDoesNotMutate(t *testing.T) {
	children := []Node{{Label: "1"}, {Label: "2"}, {Label: "3"}}
	n := Node{Children: children, Limit: 1}

	_ = n.Visible()

	if got := labels(n.Children); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("children changed to %v", got)
	}
}
