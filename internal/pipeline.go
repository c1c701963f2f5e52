package internal

import (
	"context"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

const (
	StageScan     = "scan"
	StageDedup    = "dedup"
	StageRename   = "rename"
	StageOrganize = "organize"
	StageReport   = "report"
)

// Report kinds, used as file name prefixes.
const (
	ReportScan         = "scan"
	ReportOptimization = "optimization"
)

// Move records one file that changed location.
type Move struct {
	From string
	To   string
	Hash string
	Size int64
}

// StageResult is what a mutating stage did to the working set.
type StageResult struct {
	// Photos is the working set after the stage.
	Photos    []*Photo
	Moves     []Move
	Unchanged int
	Missing   int
	Failures  []*ProcessError
}

// State is the last stage the optimizer completed.
type State int

const (
	StateIdle State = iota
	StateScanned
	StateDeduplicated
	StateRenamed
	StateOrganized
	StateReported
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanned:
		return "scanned"
	case StateDeduplicated:
		return "deduplicated"
	case StateRenamed:
		return "renamed"
	case StateOrganized:
		return "organized"
	case StateReported:
		return "reported"
	}
	return "unknown"
}

// RunStats tracks counters for one optimizer.
type RunStats struct {
	Scanned    int
	Photos     int
	Removed    int
	Renamed    int
	Organized  int
	Missing    int
	Errors     int
	TotalBytes int64
	Duplicates DuplicateStats
	Reports    []string
}

// Optimizer owns the working set of one gallery root and runs the stages
// over it: scan, dedup, rename, organize, report. Stages run one at a time;
// an Optimizer must not be used from several goroutines.
type Optimizer struct {
	Root string

	cfg     *Config
	sink    Sink
	trash   Trash
	journal *Journal

	photos []*Photo
	state  State
	stats  RunStats
	errs   *ErrorStats
}

func NewOptimizer(root string, cfg *Config, sink Sink, trash Trash) *Optimizer {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if sink == nil {
		sink = Discard
	}
	if trash == nil {
		trash = NoTrash{}
	}
	return &Optimizer{
		Root:  root,
		cfg:   cfg,
		sink:  sink,
		trash: trash,
		errs:  NewErrorStats(),
	}
}

// SetJournal makes the optimizer record every file move and failure in j.
func (o *Optimizer) SetJournal(j *Journal) { o.journal = j }

func (o *Optimizer) Photos() []*Photo { return o.photos }

func (o *Optimizer) State() State { return o.state }

func (o *Optimizer) Errors() *ErrorStats { return o.errs }

func (o *Optimizer) Stats() RunStats {
	st := o.stats
	st.Photos = len(o.photos)
	st.TotalBytes = 0
	for _, p := range o.photos {
		st.TotalBytes += p.Size
	}
	st.Errors = o.errs.Total
	return st
}

func (o *Optimizer) ReportsDir() string {
	return filepath.Join(o.Root, o.cfg.ReportsDir)
}

func (o *Optimizer) DuplicatesDir() string {
	return filepath.Join(o.Root, o.cfg.DuplicatesDir)
}

// Scan replaces the working set with a fresh scan of Root. An invalid root
// is returned as an error and leaves the optimizer idle and empty.
func (o *Optimizer) Scan(ctx context.Context) error {
	emitf(o.sink, "scanning gallery: %s", o.Root)
	o.photos = nil
	o.state = StateIdle

	photos, err := NewScanner(o.cfg, o.sink).Scan(ctx, o.Root)
	if err != nil {
		errorf(o.sink, "%v", err)
		return err
	}

	o.photos = photos
	o.state = StateScanned
	o.stats.Scanned = len(photos)
	emitf(o.sink, "scan finished, photos found: %d", len(photos))

	if len(photos) > 0 {
		o.saveReport(ReportScan)
	}
	return nil
}

// ensurePhotos scans when the working set is empty. It reports false when
// there is still nothing to work on.
func (o *Optimizer) ensurePhotos(ctx context.Context) (bool, error) {
	if len(o.photos) > 0 {
		return true, nil
	}
	emitf(o.sink, "no photos loaded, scanning first...")
	if err := o.Scan(ctx); err != nil {
		return false, err
	}
	if len(o.photos) == 0 {
		emitf(o.sink, "no photos found after scan")
		return false, nil
	}
	return true, nil
}

// RemoveDuplicates keeps one photo per content hash and sends the rest to trash.
func (o *Optimizer) RemoveDuplicates(ctx context.Context) error {
	if ok, err := o.ensurePhotos(ctx); !ok {
		return err
	}
	o.removeDuplicates()
	return nil
}

// Rename renames every photo with pattern, or the configured pattern when
// pattern is empty.
func (o *Optimizer) Rename(ctx context.Context, pattern string) error {
	if pattern == "" {
		pattern = o.cfg.Pattern
	}
	if err := ValidatePattern(pattern); err != nil {
		errorf(o.sink, "%v", err)
		return err
	}
	if ok, err := o.ensurePhotos(ctx); !ok {
		return err
	}
	o.rename(pattern)
	return nil
}

// Organize moves every photo into its date bucket under Root.
func (o *Optimizer) Organize(ctx context.Context) error {
	if ok, err := o.ensurePhotos(ctx); !ok {
		return err
	}
	o.organize()
	return nil
}

// Report writes the optimization report for the current working set and
// returns its path. A write failure is logged and returned; the working set
// is not affected.
func (o *Optimizer) Report(ctx context.Context) (string, error) {
	if ok, err := o.ensurePhotos(ctx); !ok {
		return "", err
	}
	return o.report()
}

// Run executes the whole pipeline. Only an invalid root stops it; every
// per-file problem is logged and counted, and later stages work on whatever
// photos are left.
func (o *Optimizer) Run(ctx context.Context) error {
	if err := ValidatePattern(o.cfg.Pattern); err != nil {
		errorf(o.sink, "%v", err)
		return err
	}
	ok, err := o.ensurePhotos(ctx)
	if !ok {
		return err
	}

	o.journalErr(o.journal.LogRunStart(o.Root, len(o.photos)))
	emitf(o.sink, "=== starting full optimization ===")
	emitf(o.sink, "photos to process: %d", len(o.photos))

	steps := []struct {
		title string
		run   func()
	}{
		{"step 1: finding and removing duplicates", o.removeDuplicates},
		{"step 2: standardizing file names", func() { o.rename(o.cfg.Pattern) }},
		{"step 3: organizing by creation date", o.organize},
		{"step 4: generating final report", func() { o.report() }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		emitf(o.sink, "=== %s ===", step.title)
		step.run()
	}

	emitf(o.sink, "=== gallery optimization finished ===")
	for _, line := range o.SummaryLines() {
		emitf(o.sink, "%s", line)
	}
	o.journalErr(o.journal.LogRunEnd(o.Stats()))
	return nil
}

func (o *Optimizer) removeDuplicates() {
	before := len(o.photos)
	res := NewDuplicateIndex(o.photos).Resolve(o.trash, o.sink)
	o.photos = res.Survivors
	o.stats.Duplicates = res.Stats
	o.stats.Removed += len(res.Trashed)
	for _, m := range res.Trashed {
		o.journalErr(o.journal.LogMove(EventTrashed, m))
	}
	o.record(res.Failures)

	for _, line := range res.Stats.Lines() {
		emitf(o.sink, "%s", line)
	}
	emitf(o.sink, "duplicates dropped: %d", before-len(o.photos))
	emitf(o.sink, "unique photos left: %d", len(o.photos))
	o.state = StateDeduplicated
}

func (o *Optimizer) rename(pattern string) {
	res := (&Renamer{Pattern: pattern, Sink: o.sink}).Rename(o.photos)
	o.apply(res, EventRenamed)
	o.stats.Renamed += len(res.Moves)
	emitf(o.sink, "renamed: %d, already named: %d", len(res.Moves), res.Unchanged)
	o.state = StateRenamed
}

func (o *Optimizer) organize() {
	emitf(o.sink, "organizing by date...")
	res := (&Organizer{Root: o.Root, Locale: Locale(o.cfg.Locale), Sink: o.sink}).Organize(o.photos)
	o.apply(res, EventMoved)
	o.stats.Organized += len(res.Moves)
	emitf(o.sink, "moved: %d, already in place: %d", len(res.Moves), res.Unchanged)
	o.state = StateOrganized
}

func (o *Optimizer) report() (string, error) {
	path, err := o.saveReport(ReportOptimization)
	o.state = StateReported
	return path, err
}

// SummaryLines are the final counts of the run, emitted even after partial failures.
func (o *Optimizer) SummaryLines() []string {
	st := o.Stats()
	lines := []string{
		"final photo count: " + humanize.Comma(int64(st.Photos)),
		"total size: " + humanize.IBytes(uint64(st.TotalBytes)),
		"processed: " + humanize.Comma(int64(st.Scanned)),
		"removed: " + humanize.Comma(int64(st.Removed)),
		"renamed: " + humanize.Comma(int64(st.Renamed)),
		"organized: " + humanize.Comma(int64(st.Organized)),
	}
	if st.Missing > 0 {
		lines = append(lines, "missing: "+humanize.Comma(int64(st.Missing)))
	}
	return append(lines, o.errs.Lines()...)
}

func (o *Optimizer) saveReport(kind string) (string, error) {
	r := &Reporter{Dir: o.ReportsDir(), Sink: o.sink}
	path, err := r.Save(kind, o.photos)
	if err != nil {
		o.record([]*ProcessError{CategorizeError(StageReport, o.ReportsDir(), err)})
		return "", err
	}
	o.stats.Reports = append(o.stats.Reports, path)
	return path, nil
}

func (o *Optimizer) apply(res StageResult, event string) {
	// only records that left the working set count as missing
	o.stats.Missing += len(o.photos) - len(res.Photos)
	o.photos = res.Photos
	for _, m := range res.Moves {
		o.journalErr(o.journal.LogMove(event, m))
	}
	o.record(res.Failures)
}

func (o *Optimizer) record(failures []*ProcessError) {
	for _, f := range failures {
		o.errs.Add(f)
		o.journalErr(o.journal.LogError(f))
	}
}

// journalErr reports a failed journal write; the run itself goes on.
func (o *Optimizer) journalErr(err error) {
	if err != nil {
		warnf(o.sink, "journal: %v", err)
	}
}
