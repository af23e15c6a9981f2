package analyze

import (
	"sort"

	"pubcrates/internal/rustdoc"
)

// IDSet is a set of item IDs.
type IDSet map[rustdoc.ID]struct{}

// Add inserts id.
func (s IDSet) Add(id rustdoc.ID) { s[id] = struct{}{} }

// Has reports whether id is in the set.
func (s IDSet) Has(id rustdoc.ID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending ID order.
func (s IDSet) Sorted() []rustdoc.ID {
	ids := make([]rustdoc.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SpanSet is a set of source spans, compared by value.
type SpanSet map[rustdoc.Span]struct{}

// Add inserts span.
func (s SpanSet) Add(span rustdoc.Span) { s[span] = struct{}{} }

// Sorted returns the members ordered by file, begin and end position.
func (s SpanSet) Sorted() []rustdoc.Span {
	spans := make([]rustdoc.Span, 0, len(s))
	for span := range s {
		spans = append(spans, span)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Less(spans[j]) })
	return spans
}

// Result is the outcome of analysing a crate: which external items each
// external crate contributes to the public API, and where they are used.
type Result struct {
	// Components maps an external crate ID to the referenced items it owns.
	Components map[uint32]IDSet
	// Usages maps a referenced item to the spans of the local items using it.
	Usages map[rustdoc.ID]SpanSet
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{
		Components: make(map[uint32]IDSet),
		Usages:     make(map[rustdoc.ID]SpanSet),
	}
}

func (r *Result) addComponent(crateID uint32, id rustdoc.ID) {
	ids, ok := r.Components[crateID]
	if !ok {
		ids = make(IDSet)
		r.Components[crateID] = ids
	}
	ids.Add(id)
}

func (r *Result) addUsage(id rustdoc.ID, span rustdoc.Span) {
	spans, ok := r.Usages[id]
	if !ok {
		spans = make(SpanSet)
		r.Usages[id] = spans
	}
	spans.Add(span)
}

// Merge unions other into r. Merging is commutative and idempotent.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	for crateID, ids := range other.Components {
		for id := range ids {
			r.addComponent(crateID, id)
		}
	}
	for id, spans := range other.Usages {
		for span := range spans {
			r.addUsage(id, span)
		}
	}
}

// Equal reports whether r and other hold the same sets.
func (r *Result) Equal(other *Result) bool {
	if len(r.Components) != len(other.Components) || len(r.Usages) != len(other.Usages) {
		return false
	}
	for crateID, ids := range r.Components {
		theirs, ok := other.Components[crateID]
		if !ok || len(theirs) != len(ids) {
			return false
		}
		for id := range ids {
			if !theirs.Has(id) {
				return false
			}
		}
	}
	for id, spans := range r.Usages {
		theirs, ok := other.Usages[id]
		if !ok || len(theirs) != len(spans) {
			return false
		}
		for span := range spans {
			if _, ok := theirs[span]; !ok {
				return false
			}
		}
	}
	return true
}

// ComponentIDs returns the external crate IDs present in the result, ascending.
func (r *Result) ComponentIDs() []uint32 {
	ids := make([]uint32, 0, len(r.Components))
	for id := range r.Components {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ItemCount returns the number of distinct referenced items across components.
func (r *Result) ItemCount() int {
	n := 0
	for _, ids := range r.Components {
		n += len(ids)
	}
	return n
}
