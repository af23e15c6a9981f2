// Package analyze finds the external items a crate exposes through its
// public API.
//
// Every locally owned item is walked with package visit. A reference counts
// when its target has a path table entry owned by a registered external
// crate; built-in crates are dropped unless Options.IncludeStd is set.
// Unresolvable references are ignored, never reported.
package analyze

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"pubcrates/internal/rustdoc"
	"pubcrates/internal/slogutil"
	"pubcrates/internal/visit"
)

// BuiltinCrates are the standard library crates filtered out by default.
var BuiltinCrates = []string{"std", "alloc", "core"}

// IsBuiltin reports whether name is one of BuiltinCrates.
func IsBuiltin(name string) bool {
	for _, b := range BuiltinCrates {
		if name == b {
			return true
		}
	}
	return false
}

// Options controls an analysis run.
type Options struct {
	// IncludeStd keeps references into std, alloc and core.
	IncludeStd bool
	// Workers is the number of goroutines used by Run. Values below 2 run
	// sequentially.
	Workers int
	// Logger receives debug counters. Nil disables logging.
	Logger *slog.Logger
}

// observer collects the references of a single item.
type observer struct {
	crate      *rustdoc.Crate
	includeStd bool
	refs       []ref
}

type ref struct {
	crateID uint32
	id      rustdoc.ID
}

func (o *observer) VisitPath(p *rustdoc.Path) { o.on(p.ID) }

func (o *observer) VisitImport(imp *rustdoc.Import) {
	if imp.ID == nil {
		return
	}
	o.on(*imp.ID)
}

func (o *observer) on(id rustdoc.ID) {
	summary, ok := o.crate.Paths[id]
	if !ok {
		return
	}
	ext, ok := o.crate.ExternalCrates[summary.CrateID]
	if !ok {
		return
	}
	if !o.includeStd && IsBuiltin(ext.Name) {
		return
	}
	o.refs = append(o.refs, ref{crateID: summary.CrateID, id: id})
}

// Items analyses the given items of crate. Items owned by an external crate
// are skipped.
func Items(crate *rustdoc.Crate, items []*rustdoc.Item, opts Options) *Result {
	result := NewResult()
	obs := &observer{crate: crate, includeStd: opts.IncludeStd}

	for _, item := range items {
		if item == nil || crate.IsExternal(item.CrateID) {
			continue
		}
		obs.refs = obs.refs[:0]
		visit.Item(item, obs)

		for _, r := range obs.refs {
			result.addComponent(r.crateID, r.id)
			if item.Span != nil {
				result.addUsage(r.id, *item.Span)
			}
		}
	}

	return result
}

// Run analyses every local item of crate. With opts.Workers > 1 the items
// are partitioned across goroutines; each builds a private Result and the
// partial results are merged once all workers finish.
func Run(ctx context.Context, crate *rustdoc.Crate, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}

	items := crate.LocalItems()
	workers := opts.Workers
	if workers > len(items) {
		workers = len(items)
	}

	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := Items(crate, items, opts)
		logResult(logger, len(items), 1, result)
		return result, nil
	}

	partials := make([]*Result, workers)
	chunk := (len(items) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(items))
		if start >= end {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partials[w] = Items(crate, items[start:end], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := NewResult()
	for _, p := range partials {
		result.Merge(p)
	}
	logResult(logger, len(items), workers, result)
	return result, nil
}

func logResult(logger *slog.Logger, items, workers int, result *Result) {
	logger.Debug("Analysis complete",
		"items", items,
		"workers", workers,
		"components", len(result.Components),
		"references", result.ItemCount(),
	)
}
