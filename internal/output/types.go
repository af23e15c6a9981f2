package output

import "fmt"

// Report is the assembled public API report of one crate.
type Report struct {
	Crate      string      `json:"crate" yaml:"crate"`
	IncludeStd bool        `json:"includeStd,omitempty" yaml:"includeStd,omitempty"`
	Components []Component `json:"components" yaml:"components"`
}

// Component is an external crate together with the items it contributes.
type Component struct {
	CrateID uint32 `json:"crateId" yaml:"crateId"`
	Name    string `json:"name" yaml:"name"`
	Items   []Item `json:"items" yaml:"items"`
}

// Item is one external item referenced from the public API.
type Item struct {
	ID     string  `json:"id" yaml:"id"`
	Path   string  `json:"path" yaml:"path"`
	Usages []Usage `json:"usages,omitempty" yaml:"usages,omitempty"`
}

// Usage is the source location of a local item that references an Item.
type Usage struct {
	File      string `json:"file" yaml:"file"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	EndLine   int    `json:"endLine" yaml:"endLine"`
	EndColumn int    `json:"endColumn" yaml:"endColumn"`
}

// String formats the usage as file:line:col.
func (u Usage) String() string {
	return fmt.Sprintf("%s:%d:%d", u.File, u.Line, u.Column)
}

// ComponentNames returns the component names in report order.
func (r *Report) ComponentNames() []string {
	names := make([]string, 0, len(r.Components))
	for _, c := range r.Components {
		names = append(names, c.Name)
	}
	return names
}
