package main

import (
	"fmt"
	"strings"
	"time"

	"pubcrates/internal/output"
	"pubcrates/internal/storage"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

// humanOptions controls the human report layout.
type humanOptions struct {
	Indent    int
	MaxUsages int
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat, opts humanOptions) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp, opts)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := output.DeterministicEncodeIndented(resp, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	data, err := output.EncodeYAML(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}, opts humanOptions) (string, error) {
	switch v := resp.(type) {
	case *output.Report:
		var b strings.Builder
		if err := output.WriteHuman(&b, v, opts.Indent, opts.MaxUsages); err != nil {
			return "", err
		}
		return b.String(), nil
	case *CheckResponse:
		return formatCheckHuman(v)
	case *HistoryResponse:
		return formatHistoryHuman(v), nil
	case *storage.RunDiff:
		return formatDiffHuman(v), nil
	case *ConfigShowResponse:
		return formatConfigShowHuman(v), nil
	case *ConfigEnvResponse:
		return formatConfigEnvHuman(v), nil
	default:
		return formatJSON(resp)
	}
}

// formatCheckHuman prints the allow-list differences and, on failure, the
// table that would allow the current public API.
func formatCheckHuman(resp *CheckResponse) (string, error) {
	var b strings.Builder
	if err := resp.Result.Write(&b); err != nil {
		return "", err
	}
	if resp.Suggestion != "" {
		b.WriteString("\nTo allow the current public API, add to Cargo.toml:\n\n")
		b.WriteString(resp.Suggestion)
	}
	return b.String(), nil
}

func formatHistoryHuman(resp *HistoryResponse) string {
	if len(resp.Runs) == 0 {
		return "No recorded runs.\n"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s  %-19s  %-24s  %10s  %5s\n", "ID", "Recorded", "Crate", "Components", "Items"))
	for _, run := range resp.Runs {
		b.WriteString(fmt.Sprintf("%-8s  %-19s  %-24s  %10d  %5d\n",
			shortID(run.ID), run.CreatedAt.Local().Format(time.DateTime), run.Crate, run.Components, run.Items))
	}
	return b.String()
}

func formatDiffHuman(d *storage.RunDiff) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s -> %s\n", d.To.Crate, shortID(d.From.ID), shortID(d.To.ID)))
	if d.Empty() {
		b.WriteString("No changes in the public API.\n")
		return b.String()
	}
	writeNames := func(header, sign string, names []string) {
		if len(names) == 0 {
			return
		}
		b.WriteString("\n" + header + ":\n")
		for _, name := range names {
			b.WriteString("    " + sign + " " + name + "\n")
		}
	}
	writeItems := func(header, sign string, items []storage.RunItem) {
		names := make([]string, 0, len(items))
		for _, item := range items {
			names = append(names, item.Path)
		}
		writeNames(header, sign, names)
	}
	writeNames("Components added", "+", d.AddedComponents)
	writeNames("Components removed", "-", d.RemovedComponents)
	writeItems("Items added", "+", d.AddedItems)
	writeItems("Items removed", "-", d.RemovedItems)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
