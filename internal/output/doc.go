// Package output turns an analysis result into the public API report.
//
// # Report Assembly
//
// BuildReport resolves every component ID to an external crate name and
// every item ID to its display path. Analysis is lenient about unresolvable
// references, but a report is strict: an ID present in the result with no
// registry or path table entry is a DATA_INTEGRITY error and nothing is
// rendered.
//
// # Ordering Contract
//
//   - components: crateId ASC
//   - items: id ASC
//   - usages: file ASC → line ASC → column ASC → endLine ASC → endColumn ASC
//
// # Tree Rendering
//
// Writer and Cursor draw an indented tree with box-drawing connectors:
//
//	bar
//	├── bar::Input
//	│   └── src/lib.rs:10:1
//	└── bar::Trait
//	    ├── src/lib.rs:3:1
//	    ├── src/lib.rs:7:1
//	    ├── src/lib.rs:9:1
//	    └── and 2 more...
//
// A Cursor is a value: deriving children never mutates the parent, and each
// child carries the last-sibling flag of every ancestor, so the vertical
// guide of a finished branch is never drawn again below it.
//
// # JSON Encoding
//
// DeterministicEncode produces byte-identical JSON for identical reports:
// object keys are sorted and nil fields are omitted.
package output
