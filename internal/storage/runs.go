package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"pubcrates/internal/errors"
	"pubcrates/internal/output"
)

// timeLayout is fixed-width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one recorded report.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	Crate       string    `json:"crate" yaml:"crate"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	IncludeStd  bool      `json:"includeStd" yaml:"includeStd"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	Components  int       `json:"components" yaml:"components"`
	Items       int       `json:"items" yaml:"items"`
}

// RunItem is one external item of a recorded run.
type RunItem struct {
	Component string `json:"component" yaml:"component"`
	Path      string `json:"path" yaml:"path"`
	Usages    int    `json:"usages,omitempty" yaml:"usages,omitempty"`
}

// RunRepository reads and writes the runs and run_items tables.
type RunRepository struct {
	db  *DB
	now func() time.Time
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db, now: time.Now}
}

// RecordRun stores report under a fresh run ID. fingerprint identifies the
// rustdoc artifact the report was built from.
func (r *RunRepository) RecordRun(ctx context.Context, report *output.Report, fingerprint string) (*Run, error) {
	run := &Run{
		ID:          uuid.New().String(),
		Crate:       report.Crate,
		Fingerprint: fingerprint,
		IncludeStd:  report.IncludeStd,
		CreatedAt:   r.now().UTC(),
		Components:  len(report.Components),
	}

	err := r.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO runs (id, crate, fingerprint, include_std, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, run.Crate, run.Fingerprint, boolToInt(run.IncludeStd), run.CreatedAt.Format(timeLayout))
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO run_items (run_id, component, item_path, usages)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range report.Components {
			for _, item := range c.Items {
				res, err := stmt.ExecContext(ctx, run.ID, c.Name, item.Path, len(item.Usages))
				if err != nil {
					return fmt.Errorf("failed to insert run item: %w", err)
				}
				if n, err := res.RowsAffected(); err == nil {
					run.Items += int(n)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Newf(errors.HistoryUnavailable, err, "cannot record run for %s", report.Crate)
	}

	r.db.logger.Debug("Recorded run", "id", run.ID, "crate", run.Crate, "items", run.Items)
	return run, nil
}

const runColumns = `
	SELECT r.id, r.crate, r.fingerprint, r.include_std, r.created_at,
		COUNT(DISTINCT i.component), COUNT(i.item_path)
	FROM runs r LEFT JOIN run_items i ON i.run_id = r.id
`

// ListRuns returns the most recent runs first. An empty crate lists every
// crate; a non-positive limit lists everything.
func (r *RunRepository) ListRuns(ctx context.Context, crate string, limit int) ([]Run, error) {
	query := runColumns
	var args []interface{}
	if crate != "" {
		query += " WHERE r.crate = ?"
		args = append(args, crate)
	}
	query += " GROUP BY r.id ORDER BY r.created_at DESC, r.rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Newf(errors.HistoryUnavailable, err, "cannot list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Newf(errors.HistoryUnavailable, err, "cannot read run")
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Newf(errors.HistoryUnavailable, err, "cannot list runs")
	}
	return runs, nil
}

// LoadRun returns a run and its items. id may be a unique prefix of a run ID.
func (r *RunRepository) LoadRun(ctx context.Context, id string) (*Run, []RunItem, error) {
	fullID, err := r.resolveID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	row := r.db.conn.QueryRowContext(ctx, runColumns+" WHERE r.id = ? GROUP BY r.id", fullID)
	run, err := scanRun(row)
	if err != nil {
		return nil, nil, errors.Newf(errors.HistoryUnavailable, err, "cannot read run %s", fullID)
	}

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT component, item_path, usages FROM run_items
		WHERE run_id = ?
		ORDER BY component, item_path
	`, fullID)
	if err != nil {
		return nil, nil, errors.Newf(errors.HistoryUnavailable, err, "cannot read items of run %s", fullID)
	}
	defer rows.Close()

	var items []RunItem
	for rows.Next() {
		var item RunItem
		if err := rows.Scan(&item.Component, &item.Path, &item.Usages); err != nil {
			return nil, nil, errors.Newf(errors.HistoryUnavailable, err, "cannot read items of run %s", fullID)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Newf(errors.HistoryUnavailable, err, "cannot read items of run %s", fullID)
	}
	return run, items, nil
}

func (r *RunRepository) resolveID(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", errors.Newf(errors.HistoryUnavailable, nil, "empty run ID")
	}
	rows, err := r.db.conn.QueryContext(ctx, "SELECT id FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\\' LIMIT 2", id, escapeLike(id)+"%")
	if err != nil {
		return "", errors.Newf(errors.HistoryUnavailable, err, "cannot look up run %s", id)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var match string
		if err := rows.Scan(&match); err != nil {
			return "", errors.Newf(errors.HistoryUnavailable, err, "cannot look up run %s", id)
		}
		if match == id {
			return match, nil
		}
		matches = append(matches, match)
	}
	switch len(matches) {
	case 0:
		return "", errors.Newf(errors.HistoryUnavailable, nil, "no run matches %q", id)
	case 1:
		return matches[0], nil
	default:
		return "", errors.Newf(errors.HistoryUnavailable, nil, "run ID prefix %q is ambiguous", id)
	}
}

// RunDiff is the difference between two runs of the same crate.
type RunDiff struct {
	From              *Run      `json:"from" yaml:"from"`
	To                *Run      `json:"to" yaml:"to"`
	AddedComponents   []string  `json:"addedComponents,omitempty" yaml:"addedComponents,omitempty"`
	RemovedComponents []string  `json:"removedComponents,omitempty" yaml:"removedComponents,omitempty"`
	AddedItems        []RunItem `json:"addedItems,omitempty" yaml:"addedItems,omitempty"`
	RemovedItems      []RunItem `json:"removedItems,omitempty" yaml:"removedItems,omitempty"`
}

// Empty reports whether both runs expose the same items.
func (d *RunDiff) Empty() bool {
	return len(d.AddedItems) == 0 && len(d.RemovedItems) == 0
}

// Diff compares run from with run to. Usage counts are not compared.
func (r *RunRepository) Diff(ctx context.Context, from, to string) (*RunDiff, error) {
	fromRun, fromItems, err := r.LoadRun(ctx, from)
	if err != nil {
		return nil, err
	}
	toRun, toItems, err := r.LoadRun(ctx, to)
	if err != nil {
		return nil, err
	}
	return DiffItems(fromRun, toRun, fromItems, toItems), nil
}

// DiffItems computes the set differences of two item lists.
func DiffItems(fromRun, toRun *Run, fromItems, toItems []RunItem) *RunDiff {
	diff := &RunDiff{From: fromRun, To: toRun}

	fromSet, fromComponents := indexItems(fromItems)
	toSet, toComponents := indexItems(toItems)

	for key, item := range toSet {
		if _, ok := fromSet[key]; !ok {
			diff.AddedItems = append(diff.AddedItems, item)
		}
	}
	for key, item := range fromSet {
		if _, ok := toSet[key]; !ok {
			diff.RemovedItems = append(diff.RemovedItems, item)
		}
	}
	for c := range toComponents {
		if _, ok := fromComponents[c]; !ok {
			diff.AddedComponents = append(diff.AddedComponents, c)
		}
	}
	for c := range fromComponents {
		if _, ok := toComponents[c]; !ok {
			diff.RemovedComponents = append(diff.RemovedComponents, c)
		}
	}

	sortItems(diff.AddedItems)
	sortItems(diff.RemovedItems)
	sort.Strings(diff.AddedComponents)
	sort.Strings(diff.RemovedComponents)
	return diff
}

type itemKey struct{ component, path string }

func indexItems(items []RunItem) (map[itemKey]RunItem, map[string]struct{}) {
	set := make(map[itemKey]RunItem, len(items))
	components := make(map[string]struct{})
	for _, item := range items {
		set[itemKey{item.Component, item.Path}] = RunItem{Component: item.Component, Path: item.Path}
		components[item.Component] = struct{}{}
	}
	return set, components
}

func sortItems(items []RunItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Component != items[j].Component {
			return items[i].Component < items[j].Component
		}
		return items[i].Path < items[j].Path
	})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var includeStd int
	var createdAt string
	if err := row.Scan(&run.ID, &run.Crate, &run.Fingerprint, &includeStd, &createdAt, &run.Components, &run.Items); err != nil {
		return nil, err
	}
	run.IncludeStd = includeStd != 0
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = t
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
