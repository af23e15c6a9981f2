package main

import (
	"strings"
	"testing"
	"time"

	"pubcrates/internal/check"
	"pubcrates/internal/manifest"
	"pubcrates/internal/output"
	"pubcrates/internal/storage"
)

var defaultHuman = humanOptions{Indent: output.DefaultIndent, MaxUsages: output.DefaultMaxUsages}

func sampleReport() *output.Report {
	return &output.Report{
		Crate: "foo",
		Components: []output.Component{{
			CrateID: 1,
			Name:    "bar",
			Items: []output.Item{{
				ID:     "1:1",
				Path:   "bar::Thing",
				Usages: []output.Usage{{File: "src/lib.rs", Line: 3, Column: 1, EndLine: 3, EndColumn: 20}},
			}},
		}},
	}
}

func TestFormatResponse_HumanReport(t *testing.T) {
	result, err := FormatResponse(sampleReport(), FormatHuman, defaultHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "bar\n└── bar::Thing\n    └── src/lib.rs:3:1\n"
	if result != want {
		t.Errorf("human report = %q, want %q", result, want)
	}
}

func TestFormatResponse_JSON(t *testing.T) {
	result, err := FormatResponse(sampleReport(), FormatJSON, defaultHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{`"crate": "foo"`, `"name": "bar"`, `"path": "bar::Thing"`, `"endColumn": 20`} {
		if !strings.Contains(result, want) {
			t.Errorf("JSON output missing %s:\n%s", want, result)
		}
	}
	if strings.Contains(result, "includeStd") {
		t.Error("includeStd should be omitted when false")
	}
}

func TestFormatResponse_YAML(t *testing.T) {
	result, err := FormatResponse(sampleReport(), FormatYAML, defaultHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"crate: foo", "name: bar", "bar::Thing"} {
		if !strings.Contains(result, want) {
			t.Errorf("YAML output missing %q:\n%s", want, result)
		}
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	_, err := FormatResponse(sampleReport(), "xml", defaultHuman)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error should mention unsupported format, got: %v", err)
	}
}

func TestFormatCheckHuman(t *testing.T) {
	m, err := manifest.Decode([]byte(`
[package]
name = "foo"

[package.metadata.cargo-public-api-crates]
allowed = ["serde"]
`))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	resp, err := newCheckResponse(m, []string{"bar"})
	if err != nil {
		t.Fatalf("newCheckResponse() error: %v", err)
	}
	if resp.OK {
		t.Fatal("expected check to fail")
	}

	out, err := FormatResponse(resp, FormatHuman, defaultHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"Crates in public API that weren't allowed:\n    bar\n",
		"Crates that were allowed but not in public API:\n    serde\n",
		"[package.metadata.cargo-public-api-crates]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCheckHuman_OK(t *testing.T) {
	resp := &CheckResponse{Crate: "foo", OK: true, Result: check.Result{}}

	out, err := FormatResponse(resp, FormatHuman, defaultHuman)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("passing check should print nothing, got %q", out)
	}
}

func TestFormatHistoryHuman(t *testing.T) {
	if got := formatHistoryHuman(&HistoryResponse{}); got != "No recorded runs.\n" {
		t.Errorf("empty history = %q", got)
	}

	resp := &HistoryResponse{Runs: []storage.Run{{
		ID:         "3f2a9c1e-0000-4000-8000-000000000000",
		Crate:      "foo",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Components: 2,
		Items:      7,
	}}}
	out := formatHistoryHuman(resp)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out)
	}
	if !strings.HasPrefix(lines[1], "3f2a9c1e  ") || !strings.Contains(lines[1], "foo") {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestFormatDiffHuman(t *testing.T) {
	from := &storage.Run{ID: "aaaaaaaa-1", Crate: "foo"}
	to := &storage.Run{ID: "bbbbbbbb-2", Crate: "foo"}

	same := storage.DiffItems(from, to, nil, nil)
	if got := formatDiffHuman(same); got != "foo: aaaaaaaa -> bbbbbbbb\nNo changes in the public API.\n" {
		t.Errorf("unchanged diff = %q", got)
	}

	d := storage.DiffItems(from, to,
		[]storage.RunItem{{Component: "bar", Path: "bar::Old"}},
		[]storage.RunItem{{Component: "baz", Path: "baz::New"}},
	)
	want := `foo: aaaaaaaa -> bbbbbbbb

Components added:
    + baz

Components removed:
    - bar

Items added:
    + baz::New

Items removed:
    - bar::Old
`
	if got := formatDiffHuman(d); got != want {
		t.Errorf("diff output:\n%s\nwant:\n%s", got, want)
	}
}
