package app

import (
	"fmt"
	"os"
	"time"

	"trk-go/internal/config"
	"trk-go/internal/manifest"
	"trk-go/internal/records"
	"trk-go/internal/scaffold"
	"trk-go/internal/trk"
)

// Version is the tool version recorded in manifests it writes.
const Version = "0.3.0"

// App is the application layer between the CLI and the reconcilers.
// It constructs all dependencies from config, exposes high-level operations,
// and manages the log file lifecycle on Close.
//
// App assumes it is the only writer for the project root while an operation
// runs; callers serialize concurrent invocations against the same root.
type App struct {
	cfg      *config.Config
	store    manifest.Store
	scaffold *scaffold.Reconciler
	renumber *records.Reconciler
	scanner  *records.Scanner
	clock    trk.Clock
	idgen    trk.IDGenerator
	logger   trk.Logger
	logFile  *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Plan", "Renumber").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("no project root configured")
	}

	store, err := manifest.NewStoreFromConfig(cfg.Manifest)
	if err != nil {
		return nil, fmt.Errorf("creating manifest store: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger.With("op", operation)}

	clock := trk.RealClock{}
	return &App{
		cfg:      cfg,
		store:    store,
		scaffold: scaffold.NewReconciler(scaffold.Catalog(), store, logger, clock, Version),
		renumber: records.NewReconciler(logger),
		scanner:  records.NewScanner(logger),
		clock:    clock,
		idgen:    trk.UUIDGenerator{},
		logger:   logger,
		logFile:  logFile,
	}, nil
}

// Plan computes the scaffold reconciliation plan for the project root
// without touching disk.
func (a *App) Plan() (*scaffold.Plan, error) {
	return a.scaffold.Plan(a.cfg.ProjectRoot)
}

// Apply converges the project root's scaffold, honoring the caller's
// decisions and the force flag.
func (a *App) Apply(decisions scaffold.Decisions, force bool) (*scaffold.Result, error) {
	return a.scaffold.Apply(a.cfg.ProjectRoot, decisions, force)
}

// Renumber reconciles display-number collisions among stored records.
// Returns the number of records reassigned.
func (a *App) Renumber() (int, error) {
	return a.renumber.Reconcile(a.cfg.RecordsDir())
}

// ListRecords returns every parseable record in the project.
func (a *App) ListRecords() ([]*records.Record, error) {
	return a.scanner.Scan(a.cfg.RecordsDir())
}

// NewRecord creates a record in the current format with the next free
// display number and returns its path.
func (a *App) NewRecord(title string) (string, error) {
	n, err := a.renumber.NextDisplayNumber(a.cfg.RecordsDir())
	if err != nil {
		return "", fmt.Errorf("allocating display number: %w", err)
	}

	id := a.idgen.New()
	path, err := records.CreateFile(a.cfg.RecordsDir(), id, title, n, a.clock.Now())
	if err != nil {
		return "", err
	}

	a.logger.Info("record created", "id", id, "displayNumber", n)
	return path, nil
}

// Close releases the log file.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
