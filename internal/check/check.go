// Package check compares the crates found in a public API with the
// allow-list declared in the manifest.
package check

import (
	"fmt"
	"io"
	"sort"

	"pubcrates/internal/manifest"
)

// Result is the outcome of a comparison.
type Result struct {
	// NotAllowed are crates in the public API missing from the allow-list.
	NotAllowed []string `json:"notAllowed,omitempty" yaml:"notAllowed,omitempty"`
	// Unused are allowed crates that do not appear in the public API.
	Unused []string `json:"unused,omitempty" yaml:"unused,omitempty"`
}

// Compare normalises both lists with manifest.CrateName and returns the two
// set differences, sorted and de-duplicated.
func Compare(allowed, inAPI []string) Result {
	allowedSet := normalize(allowed)
	apiSet := normalize(inAPI)

	return Result{
		NotAllowed: difference(apiSet, allowedSet),
		Unused:     difference(allowedSet, apiSet),
	}
}

// OK reports whether the public API matches the allow-list exactly.
func (r Result) OK() bool {
	return len(r.NotAllowed) == 0 && len(r.Unused) == 0
}

// Write prints the non-empty lists, one indented crate name per line.
func (r Result) Write(w io.Writer) error {
	if err := writeList(w, "Crates in public API that weren't allowed:", r.NotAllowed); err != nil {
		return err
	}
	return writeList(w, "Crates that were allowed but not in public API:", r.Unused)
}

func writeList(w io.Writer, header string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "    %s\n", name); err != nil {
			return err
		}
	}
	return nil
}

func normalize(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[manifest.CrateName(name)] = struct{}{}
	}
	return set
}

func difference(a, b map[string]struct{}) []string {
	var out []string
	for name := range a {
		if _, ok := b[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
