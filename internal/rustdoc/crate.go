// Package rustdoc models the JSON document rustdoc emits with
// `--output-format json`: an index of items, a path table and the registry
// of external crates. The model is read-only once decoded.
package rustdoc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ID identifies an item within one rustdoc document.
type ID string

// Crate is the root of a rustdoc JSON document.
type Crate struct {
	Root            ID                       `json:"root"`
	CrateVersion    *string                  `json:"crate_version"`
	IncludesPrivate bool                     `json:"includes_private"`
	Index           map[ID]*Item             `json:"index"`
	Paths           map[ID]ItemSummary       `json:"paths"`
	ExternalCrates  map[uint32]ExternalCrate `json:"external_crates"`
	FormatVersion   int                      `json:"format_version"`
}

// ExternalCrate is a crate other than the documented one.
type ExternalCrate struct {
	Name        string  `json:"name"`
	HTMLRootURL *string `json:"html_root_url"`
}

// ItemSummary is a path table entry.
type ItemSummary struct {
	CrateID uint32   `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

// Item is one entry of the index.
type Item struct {
	ID         ID         `json:"id"`
	CrateID    uint32     `json:"crate_id"`
	Name       *string    `json:"name"`
	Span       *Span      `json:"span"`
	Visibility Visibility `json:"visibility"`
	Docs       *string    `json:"docs"`
	Inner      ItemEnum   `json:"-"`
}

// UnmarshalJSON decodes the item and its externally tagged `inner` payload.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var raw struct {
		plain
		Inner json.RawMessage `json:"inner"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = Item(raw.plain)
	inner, err := decodeItemEnum(raw.Inner)
	if err != nil {
		return fmt.Errorf("item %s: %w", raw.ID, err)
	}
	it.Inner = inner
	return nil
}

// Visibility is "public", "default", "crate" or "restricted".
type Visibility string

// UnmarshalJSON accepts both the bare string and the restricted object form.
func (v *Visibility) UnmarshalJSON(data []byte) error {
	tag, _, err := splitTagged(data)
	if err != nil {
		return err
	}
	*v = Visibility(tag)
	return nil
}

// Position is a 1-based line and column, encoded as a two-element array.
type Position struct {
	Line   int
	Column int
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.Line, p.Column = pair[0], pair[1]
	return nil
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Line, p.Column})
}

// Span is a source range. Spans are comparable and compare by value.
type Span struct {
	Filename string   `json:"filename"`
	Begin    Position `json:"begin"`
	End      Position `json:"end"`
}

// String formats the span start as file:line:col.
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.Filename, s.Begin.Line, s.Begin.Column)
}

// Less orders spans by file, begin line, begin column, end line, end column.
func (s Span) Less(o Span) bool {
	if s.Filename != o.Filename {
		return s.Filename < o.Filename
	}
	if s.Begin.Line != o.Begin.Line {
		return s.Begin.Line < o.Begin.Line
	}
	if s.Begin.Column != o.Begin.Column {
		return s.Begin.Column < o.Begin.Column
	}
	if s.End.Line != o.End.Line {
		return s.End.Line < o.End.Line
	}
	return s.End.Column < o.End.Column
}

// IsExternal reports whether crateID belongs to the external crate registry.
// The documented crate itself is never registered there.
func (c *Crate) IsExternal(crateID uint32) bool {
	_, ok := c.ExternalCrates[crateID]
	return ok
}

// LocalItems returns the items owned by the documented crate, ordered by ID.
func (c *Crate) LocalItems() []*Item {
	items := make([]*Item, 0, len(c.Index))
	for _, item := range c.Index {
		if item == nil || c.IsExternal(item.CrateID) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// DisplayPath joins the path table entry for id with "::".
func (c *Crate) DisplayPath(id ID) (string, bool) {
	summary, ok := c.Paths[id]
	if !ok {
		return "", false
	}
	return strings.Join(summary.Path, "::"), true
}

// ExternalCrateName returns the registry name of crateID.
func (c *Crate) ExternalCrateName(crateID uint32) (string, bool) {
	ext, ok := c.ExternalCrates[crateID]
	if !ok {
		return "", false
	}
	return ext.Name, true
}

// Name returns the documented crate's name, taken from the root item.
func (c *Crate) Name() string {
	if root, ok := c.Index[c.Root]; ok && root != nil && root.Name != nil {
		return *root.Name
	}
	return ""
}
