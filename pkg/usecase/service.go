// Package usecase provides application-level orchestration for CLI workflows.
// It iterates save items, threads per-item errors according to the batch
// policy, and keeps the allocator itself free of batch concerns.
package usecase

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bettersave/pkg/journal"
	"bettersave/pkg/logger"
	"bettersave/pkg/naming"
	"bettersave/pkg/progress"
	"bettersave/pkg/safepath"
	"bettersave/pkg/saver"
)

// StageSave is the progress stage name for payload writing.
const StageSave = "save"

// Options configures a Service.
type Options struct {
	// ScanLimit and CreateRetries are passed through to the saver;
	// zero values select the saver defaults.
	ScanLimit     int
	CreateRetries int
	// Logger receives debug-level workflow logging. Nil disables logging.
	Logger *logger.Logger
}

// ProgressCallback receives workflow stage progress updates.
type ProgressCallback func(stage string, processed, total int)

// Service orchestrates save workflows without Cobra dependencies.
type Service struct {
	saver *saver.Saver
	log   *logger.Logger
}

// New creates a use-case service.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Service{
		saver: saver.New(saver.Options{
			ScanLimit:     opts.ScanLimit,
			CreateRetries: opts.CreateRetries,
		}),
		log: log.With("component", "usecase"),
	}
}

// SaveItem is one payload to save.
type SaveItem struct {
	Name      string // label for reporting, e.g. the source filename or "stdin"
	Config    naming.Config
	Payload   []byte
	Overwrite bool
}

// BatchRequest contains inputs for the save workflow.
type BatchRequest struct {
	TargetDir string
	Items     []SaveItem
	// MakeDirs creates the target directory (recursively) before saving.
	MakeDirs bool
	// ContinueOnError records per-item failures and keeps going instead of
	// aborting the batch on the first failure.
	ContinueOnError bool
	// JournalPath, when non-empty, appends an audit entry per completed save.
	JournalPath string
	OnProgress  ProgressCallback
}

// SaveOperation represents the outcome of one save item.
type SaveOperation struct {
	Name      string
	Base      string
	Path      string
	Bytes     int
	Overwrite bool
	Error     error
	// JournalError records an audit-log append failure for an item whose
	// payload was durably saved. It never marks the save itself as failed.
	JournalError error
}

// Result contains the results of a save batch.
type Result struct {
	Operations []SaveOperation
	TotalItems int
	SavedCount int
	ErrorCount int
	// JournalErrorCount counts saved items whose audit entry could not be
	// written.
	JournalErrorCount int
}

// BatchExecution contains save workflow outputs.
type BatchExecution struct {
	RootDir     string
	Result      Result
	JournalPath string
	Duration    time.Duration
}

// RunSaveBatch saves every item of the request into the target directory.
//
// Without ContinueOnError the first failing item aborts the batch; its error
// is recorded in the result and also returned. With ContinueOnError every
// item is attempted and failures stay per-operation markers only. A journal
// append failure after a durable save is reported separately and never
// counts as a save failure.
func (s *Service) RunSaveBatch(req BatchRequest) (BatchExecution, error) {
	startTime := time.Now()

	rootDir, validator, err := s.prepareTarget(req.TargetDir, req.MakeDirs)
	if err != nil {
		return BatchExecution{}, err
	}

	var auditLog *journal.Writer
	if req.JournalPath != "" {
		auditLog, err = journal.NewWriter(req.JournalPath)
		if err != nil {
			return BatchExecution{}, err
		}
		defer auditLog.Close()
	}

	execution := BatchExecution{
		RootDir:     rootDir,
		JournalPath: req.JournalPath,
		Result: Result{
			TotalItems: len(req.Items),
			Operations: make([]SaveOperation, 0, len(req.Items)),
		},
	}

	var batchErr error

	for i, item := range req.Items {
		op := s.saveItem(rootDir, validator, auditLog, item)
		execution.Result.Operations = append(execution.Result.Operations, op)

		if op.Error != nil {
			execution.Result.ErrorCount++
		} else {
			execution.Result.SavedCount++
			if op.JournalError != nil {
				execution.Result.JournalErrorCount++
			}
		}

		progress.EmitStage(req.OnProgress, StageSave, i+1, len(req.Items))

		if op.Error != nil && !req.ContinueOnError {
			batchErr = fmt.Errorf("save %s: %w", op.Name, op.Error)
			break
		}
	}

	execution.Duration = time.Since(startTime)

	return execution, batchErr
}

// prepareTarget resolves the destination directory, creating it when asked.
// The validator is nil when the directory does not exist yet: the saver
// treats a missing directory as empty on scan and surfaces the creation
// failure per item, with containment falling back to a lexical check.
func (s *Service) prepareTarget(targetDir string, makeDirs bool) (string, *safepath.Validator, error) {
	if makeDirs {
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("create destination %s: %w", targetDir, err)
		}
	}

	rootDir, err := filepath.Abs(targetDir)
	if err != nil {
		return "", nil, fmt.Errorf("cannot resolve path: %w", err)
	}

	if _, err := os.Stat(rootDir); err != nil {
		return rootDir, nil, nil
	}

	validator, err := safepath.New(rootDir)
	if err != nil {
		return "", nil, err
	}

	return validator.Root(), validator, nil
}

// saveItem validates and saves a single item.
func (s *Service) saveItem(rootDir string, validator *safepath.Validator, auditLog *journal.Writer, item SaveItem) SaveOperation {
	op := SaveOperation{
		Name:      item.Name,
		Base:      item.Config.Base,
		Overwrite: item.Overwrite,
	}

	if err := item.Config.Validate(); err != nil {
		op.Error = err
		return op
	}

	candidate := filepath.Join(rootDir, item.Config.Format(item.Config.CounterStart))
	if validator != nil {
		if err := validator.ValidatePathForWrite(candidate); err != nil {
			op.Error = err
			return op
		}
	} else if err := safepath.WithinRoot(rootDir, candidate); err != nil {
		op.Error = err
		return op
	}

	path, err := s.saver.Save(rootDir, item.Config, item.Payload, item.Overwrite)
	if err != nil {
		op.Error = err
		return op
	}

	op.Path = path
	op.Bytes = len(item.Payload)

	s.log.Debugw("saved payload",
		"name", item.Name,
		"path", path,
		"bytes", op.Bytes,
		"overwrite", item.Overwrite,
	)

	if auditLog != nil {
		entryType := journal.TypeSave
		if item.Overwrite {
			entryType = journal.TypeOverwrite
		}

		if err := auditLog.Log(journal.Entry{
			Type:  entryType,
			Path:  path,
			Base:  item.Config.Base,
			Bytes: op.Bytes,
		}); err != nil {
			op.JournalError = fmt.Errorf("journal: %w", err)
			s.log.Warnw("saved but not journaled",
				"name", item.Name,
				"path", path,
				"error", err,
			)
		}
	}

	return op
}

// NextPath reports the path the next non-overwrite save for cfg would attempt
// in targetDir, without writing anything.
func (s *Service) NextPath(targetDir string, cfg naming.Config) (string, int, error) {
	if err := cfg.Validate(); err != nil {
		return "", 0, err
	}

	rootDir, err := filepath.Abs(targetDir)
	if err != nil {
		return "", 0, fmt.Errorf("cannot resolve path: %w", err)
	}

	return s.saver.NextPath(rootDir, cfg)
}

// ExistingCounters reports the counter values already occupied in targetDir
// for cfg, sorted ascending.
func (s *Service) ExistingCounters(targetDir string, cfg naming.Config) ([]int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rootDir, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path: %w", err)
	}

	return s.saver.ExistingCounters(rootDir, cfg)
}
