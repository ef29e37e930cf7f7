// Package recolor drives the create, apply and revert lifecycle of material
// customizations for each catalog kind.
package recolor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/YangQing-Lin/springtint/internal/backup"
	"github.com/YangQing-Lin/springtint/internal/builtin"
	"github.com/YangQing-Lin/springtint/internal/catalog"
	"github.com/YangQing-Lin/springtint/internal/errs"
	"github.com/YangQing-Lin/springtint/internal/history"
	"github.com/YangQing-Lin/springtint/internal/lock"
	"github.com/YangQing-Lin/springtint/internal/material"
	"github.com/YangQing-Lin/springtint/internal/overwrite"
	"github.com/YangQing-Lin/springtint/internal/plisttree"
	"github.com/YangQing-Lin/springtint/internal/staging"
)

// Recorder receives history entries. Failures are logged, never returned.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Options wires a Coordinator.
type Options struct {
	Catalog    *catalog.Catalog
	Store      *staging.Store
	System     afero.Fs // protected tree, paths as listed in the catalog
	Templates  builtin.Source
	Overwriter overwrite.Overwriter
	Recorder   Recorder
	Logger     hclog.Logger

	// Originals receives a copy of each protected file before its first
	// overwrite. Nil disables snapshots and Restore.
	Originals *backup.Store

	// MaxIterations bounds the padding search per key; zero means the default.
	MaxIterations int

	// LockWait bounds how long an operation waits on another live process
	// holding the kind's lock file. Zero means lock.DefaultWait.
	LockWait time.Duration
}

// Coordinator serializes work per kind and owns the staged state.
type Coordinator struct {
	catalog    *catalog.Catalog
	store      *staging.Store
	system     afero.Fs
	templates  builtin.Source
	overwriter overwrite.Overwriter
	recorder   Recorder
	logger     hclog.Logger
	originals  *backup.Store
	maxIter    int
	lockWait   time.Duration

	locks lock.Keyed[catalog.Kind]
	now   func() time.Time
}

// New builds a Coordinator. Catalog, Store, System and Overwriter are required.
func New(opts Options) (*Coordinator, error) {
	switch {
	case opts.Catalog == nil:
		return nil, errors.New("recolor: catalog is required")
	case opts.Store == nil:
		return nil, errors.New("recolor: staging store is required")
	case opts.System == nil:
		return nil, errors.New("recolor: system filesystem is required")
	case opts.Overwriter == nil:
		return nil, errors.New("recolor: overwriter is required")
	}
	c := &Coordinator{
		catalog:    opts.Catalog,
		store:      opts.Store,
		system:     opts.System,
		templates:  opts.Templates,
		overwriter: opts.Overwriter,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		originals:  opts.Originals,
		maxIter:    opts.MaxIterations,
		lockWait:   opts.LockWait,
		now:        time.Now,
	}
	if c.templates == nil {
		c.templates = builtin.Embedded{}
	}
	if c.logger == nil {
		c.logger = hclog.NewNullLogger()
	}
	return c, nil
}

// Kinds lists every registered kind in catalog order.
func (c *Coordinator) Kinds() []catalog.Kind {
	return c.catalog.AllKinds()
}

// Entry returns the catalog entry for kind.
func (c *Coordinator) Entry(kind catalog.Kind) (catalog.Entry, error) {
	return c.catalog.Lookup(kind)
}

// withKind resolves kind, then holds both the in-process and the on-disk lock
// for it while fn runs. Lookup happens before any filesystem access.
func (c *Coordinator) withKind(ctx context.Context, kind catalog.Kind, fn func(catalog.Entry) error) error {
	entry, err := c.catalog.Lookup(kind)
	if err != nil {
		return err
	}

	unlock := c.locks.Lock(kind)
	defer unlock()

	root, err := c.store.Root()
	if err != nil {
		return err
	}
	fl := lock.NewLock(c.store.Fs(), root, kind.String())
	fl.Wait = c.lockWait
	if err := fl.Acquire(ctx); err != nil {
		return err
	}
	stop := fl.KeepAlive(lock.StaleLockTimeout/3, func(err error) {
		c.logger.Warn("refresh lock failed", "kind", kind.String(), "error", err)
	})
	defer func() {
		stop()
		if err := fl.Release(); err != nil {
			c.logger.Warn("release lock failed", "kind", kind.String(), "error", err)
		}
	}()

	return fn(entry)
}

// CreateColor synthesizes a replacement for every file of kind and stages
// them. Either every file is staged or none is.
func (c *Coordinator) CreateColor(ctx context.Context, kind catalog.Kind, tint material.Tint, blur material.Blur) (staging.Record, error) {
	var rec staging.Record
	err := c.withKind(ctx, kind, func(entry catalog.Entry) error {
		opID := uuid.NewString()
		log := c.logger.With("kind", kind.String(), "op", opID)

		template, err := c.templates.Template(entry.Ext)
		if err != nil {
			return err
		}

		staged, err := c.synthesizeAll(entry, template, tint, blur, log)
		if err != nil {
			c.record(ctx, history.Entry{OperationID: opID, Kind: kind.String(), Action: history.ActionCreate}, err)
			return err
		}

		for i, b := range entry.Files {
			if err := c.store.Save(entry, b, staged[i]); err != nil {
				if rbErr := c.store.Remove(entry); rbErr != nil {
					log.Error("rollback after failed save", "error", rbErr)
				}
				c.record(ctx, history.Entry{OperationID: opID, Kind: kind.String(), Action: history.ActionCreate, Basename: b}, err)
				return err
			}
		}

		tint = tint.Clamp()
		if blur < 0 {
			blur = 0
		}
		rec = staging.Record{
			State:       staging.Staged,
			OperationID: opID,
			Red:         tint.Red,
			Green:       tint.Green,
			Blue:        tint.Blue,
			Alpha:       tint.Alpha,
			Blur:        int(blur),
			Files:       append([]string(nil), entry.Files...),
			StagedAt:    c.now().UTC(),
		}
		if err := c.store.WriteState(kind, rec); err != nil {
			return err
		}

		log.Info("staged", "files", len(staged))
		c.record(ctx, history.Entry{OperationID: opID, Kind: kind.String(), Action: history.ActionCreate}, nil)
		return nil
	})
	if err != nil {
		return staging.Record{}, err
	}
	rec.Kind = kind.String()
	return rec, nil
}

// synthesizeAll builds every replacement in memory, so nothing is staged when
// any single file fails.
func (c *Coordinator) synthesizeAll(entry catalog.Entry, template plisttree.Dict, tint material.Tint, blur material.Blur, log hclog.Logger) ([][]byte, error) {
	if info, err := c.system.Stat(entry.Dir); err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		return nil, &errs.DirectoryError{Path: entry.Dir, Err: err}
	}

	out := make([][]byte, len(entry.Files))
	for i, b := range entry.Files {
		p := entry.SystemPath(b)
		installed, err := afero.ReadFile(c.system, p)
		if err != nil {
			return nil, &errs.ReadError{Path: p, Err: err}
		}

		format := plisttree.Binary
		if _, f, err := plisttree.Decode(installed); err == nil {
			format = f
		} else {
			log.Debug("installed file not decodable, using binary", "basename", b, "error", err)
		}

		synth := material.Synthesizer{Format: format, MaxIterations: c.maxIter, Logger: log}
		data, err := synth.Synthesize(template, tint, blur, entry.Kind, len(installed))
		if err != nil {
			var sizeErr *errs.SizeMismatchError
			if errors.As(err, &sizeErr) {
				sizeErr.Basename = b
			}
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}

// FileResult is the outcome of one overwrite attempt.
type FileResult struct {
	Basename string
	Path     string
	Err      error
}

// ApplyReport summarizes an apply across a kind's files.
type ApplyReport struct {
	Kind        catalog.Kind
	OperationID string
	Results     []FileResult
}

// Applied returns the basenames that were written.
func (r *ApplyReport) Applied() []string {
	var out []string
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res.Basename)
		}
	}
	return out
}

// Failed returns the results that did not apply.
func (r *ApplyReport) Failed() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// ApplyColor writes each staged file over its protected counterpart. Files
// are independent: a failure is logged and the rest still apply. The kind is
// Applied once its representative file succeeds.
func (c *Coordinator) ApplyColor(ctx context.Context, kind catalog.Kind) (*ApplyReport, error) {
	var report *ApplyReport
	err := c.withKind(ctx, kind, func(entry catalog.Entry) error {
		rec, err := c.store.ReadState(kind)
		if err != nil {
			c.logger.Warn("state record unreadable", "kind", kind.String(), "error", err)
			rec = staging.Record{State: staging.Unset}
		}
		opID := rec.OperationID
		if opID == "" {
			opID = uuid.NewString()
		}
		report = &ApplyReport{Kind: kind, OperationID: opID}

		for _, b := range entry.Files {
			res := FileResult{Basename: b, Path: entry.SystemPath(b)}
			res.Err = c.applyOne(ctx, entry, b)
			report.Results = append(report.Results, res)

			ev := history.Entry{OperationID: opID, Kind: kind.String(), Action: history.ActionApply, Basename: b}
			if res.Err != nil {
				c.logger.Warn("apply failed", "kind", kind.String(), "basename", b, "stage", errs.Stage(res.Err), "error", res.Err)
			}
			c.record(ctx, ev, res.Err)
		}

		if first := report.Results[0]; first.Err != nil {
			return fmt.Errorf("%s: representative %s not applied: %w", kind, first.Basename, first.Err)
		}

		now := c.now().UTC()
		rec.State = staging.Applied
		rec.OperationID = opID
		rec.AppliedAt = &now
		if len(rec.Files) == 0 {
			rec.Files = append([]string(nil), entry.Files...)
		}
		return c.store.WriteState(kind, rec)
	})
	return report, err
}

func (c *Coordinator) applyOne(ctx context.Context, entry catalog.Entry, basename string) error {
	data, err := c.store.Read(entry, basename)
	if err != nil {
		return err
	}

	// the size precondition is checked against a live stat every time
	p := entry.SystemPath(basename)
	info, err := c.system.Stat(p)
	if err != nil {
		return &errs.ReadError{Path: p, Err: err}
	}
	if info.Size() != int64(len(data)) {
		return &errs.SizeMismatchError{Basename: basename, Target: int(info.Size()), Closest: len(data)}
	}

	if c.originals != nil && !c.originals.Has(entry, basename) {
		installed, err := afero.ReadFile(c.system, p)
		if err != nil {
			return &errs.ReadError{Path: p, Err: err}
		}
		if _, err := c.originals.Snapshot(entry, basename, installed); err != nil {
			return err
		}
	}

	if err := c.overwriter.Overwrite(ctx, p, data); err != nil {
		return &errs.OverwriteError{Path: p, Err: err}
	}
	return nil
}

// ErrNoOriginals is returned by Restore when no original is held for a kind.
var ErrNoOriginals = errors.New("no originals saved")

// Restore writes the saved originals of kind back over the protected files.
// Like ApplyColor it is best-effort per file; files without an original are
// skipped. Staged files are left alone, so the kind drops back to Staged, or
// to Unset when nothing is staged.
func (c *Coordinator) Restore(ctx context.Context, kind catalog.Kind) (*ApplyReport, error) {
	if _, err := c.catalog.Lookup(kind); err != nil {
		return nil, err
	}
	if c.originals == nil {
		return nil, ErrNoOriginals
	}
	var report *ApplyReport
	err := c.withKind(ctx, kind, func(entry catalog.Entry) error {
		held, err := c.originals.List(entry)
		if err != nil {
			return err
		}
		if len(held) == 0 {
			return fmt.Errorf("%s: %w", kind, ErrNoOriginals)
		}

		opID := uuid.NewString()
		report = &ApplyReport{Kind: kind, OperationID: opID}
		for _, o := range held {
			res := FileResult{Basename: o.Basename, Path: entry.SystemPath(o.Basename)}
			res.Err = c.restoreOne(ctx, entry, o.Basename)
			report.Results = append(report.Results, res)
			if res.Err != nil {
				c.logger.Warn("restore failed", "kind", kind.String(), "basename", o.Basename, "stage", errs.Stage(res.Err), "error", res.Err)
			}
			c.record(ctx, history.Entry{OperationID: opID, Kind: kind.String(), Action: history.ActionRestore, Basename: o.Basename}, res.Err)
		}
		if failed := report.Failed(); len(failed) == len(report.Results) {
			return fmt.Errorf("%s: nothing restored: %w", kind, failed[0].Err)
		}

		rec, err := c.store.ReadState(kind)
		if err != nil || rec.State != staging.Applied {
			return nil
		}
		rec.AppliedAt = nil
		rec.State = staging.Staged
		if names, _ := c.store.List(entry); len(names) == 0 {
			return c.store.ClearState(kind)
		}
		return c.store.WriteState(kind, rec)
	})
	return report, err
}

func (c *Coordinator) restoreOne(ctx context.Context, entry catalog.Entry, basename string) error {
	data, err := c.originals.Read(entry, basename)
	if err != nil {
		return err
	}
	p := entry.SystemPath(basename)
	info, err := c.system.Stat(p)
	if err != nil {
		return &errs.ReadError{Path: p, Err: err}
	}
	if info.Size() != int64(len(data)) {
		return &errs.SizeMismatchError{Basename: basename, Target: int(info.Size()), Closest: len(data)}
	}
	if err := c.overwriter.Overwrite(ctx, p, data); err != nil {
		return &errs.OverwriteError{Path: p, Err: err}
	}
	return nil
}

// DeleteColor removes every staged file of kind and returns it to Unset.
// Only an unresolvable staging root is an error.
func (c *Coordinator) DeleteColor(ctx context.Context, kind catalog.Kind) error {
	return c.withKind(ctx, kind, func(entry catalog.Entry) error {
		rec, _ := c.store.ReadState(kind)
		opID := rec.OperationID
		if opID == "" {
			opID = uuid.NewString()
		}

		if err := c.store.Remove(entry); err != nil {
			var dirErr *errs.DirectoryError
			if errors.As(err, &dirErr) && dirErr.Path == c.store.Dir() {
				return err
			}
			c.logger.Warn("some staged files were not removed", "kind", kind.String(), "error", err)
		}
		c.record(ctx, history.Entry{OperationID: opID, Kind: kind.String(), Action: history.ActionRevert}, nil)
		return nil
	})
}

// GetColor returns the staged tint of kind, or stock gray when there is
// nothing readable. It never fails.
func (c *Coordinator) GetColor(kind catalog.Kind) material.Tint {
	tree, ok := c.stagedTree(kind)
	if !ok {
		return material.StockGray
	}
	return material.ExtractTint(tree, kind)
}

// GetBlur returns the staged blur of kind, or the default radius.
func (c *Coordinator) GetBlur(kind catalog.Kind) material.Blur {
	tree, ok := c.stagedTree(kind)
	if !ok {
		return material.DefaultBlur
	}
	return material.ExtractBlur(tree)
}

func (c *Coordinator) stagedTree(kind catalog.Kind) (plisttree.Dict, bool) {
	entry, err := c.catalog.Lookup(kind)
	if err != nil {
		return nil, false
	}
	data, err := c.store.Read(entry, entry.Representative())
	if err != nil {
		return nil, false
	}
	tree, _, err := plisttree.Decode(data)
	if err != nil {
		c.logger.Debug("staged file not decodable", "kind", kind.String(), "error", err)
		return nil, false
	}
	return tree, true
}

// State reports the persisted lifecycle record of kind.
func (c *Coordinator) State(kind catalog.Kind) (staging.Record, error) {
	if _, err := c.catalog.Lookup(kind); err != nil {
		return staging.Record{}, err
	}
	return c.store.ReadState(kind)
}

// Diff renders the difference between the installed and the staged
// representative file of kind.
func (c *Coordinator) Diff(kind catalog.Kind) (string, error) {
	entry, err := c.catalog.Lookup(kind)
	if err != nil {
		return "", err
	}
	b := entry.Representative()

	p := entry.SystemPath(b)
	installed, err := afero.ReadFile(c.system, p)
	if err != nil {
		return "", &errs.ReadError{Path: p, Err: err}
	}
	oldTree, _, err := plisttree.Decode(installed)
	if err != nil {
		return "", err
	}

	staged, err := c.store.Read(entry, b)
	if err != nil {
		return "", err
	}
	newTree, _, err := plisttree.Decode(staged)
	if err != nil {
		return "", err
	}

	return material.DiffTrees(oldTree, newTree, "installed/"+entry.FileName(b), "staged/"+entry.FileName(b)), nil
}

func (c *Coordinator) record(ctx context.Context, e history.Entry, opErr error) {
	if c.recorder == nil {
		return
	}
	e.Outcome = history.OutcomeOK
	if opErr != nil {
		e.Outcome = history.OutcomeFailed
		e.Stage = errs.Stage(opErr)
		e.Detail = opErr.Error()
	}
	if e.At.IsZero() {
		e.At = c.now()
	}
	if err := c.recorder.Record(ctx, e); err != nil {
		c.logger.Warn("history record failed", "kind", e.Kind, "error", err)
	}
}
