package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DocumentCodec reads and writes action documents at a path.
type DocumentCodec interface {
	ReadDocument(path string) (*ActionDocument, error)
	WriteDocument(path string, doc *ActionDocument) error
}

// ImportMode selects one of the import policies.
type ImportMode int

const (
	// ImportAction replaces all animation data with a new action built from the document.
	ImportAction ImportMode = iota
	// ImportReplace replaces matching channels of the active action and adds the others.
	ImportReplace
	// ImportMerge merges into matching channels of the active action and adds the others.
	ImportMerge
)

func (m ImportMode) String() string {
	switch m {
	case ImportAction:
		return "action"
	case ImportReplace:
		return "replace"
	case ImportMerge:
		return "merge"
	default:
		return fmt.Sprintf("ImportMode(%d)", int(m))
	}
}

// ParseImportMode parses "action", "replace" or "merge".
func ParseImportMode(s string) (ImportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "action":
		return ImportAction, nil
	case "replace":
		return ImportReplace, nil
	case "merge":
		return ImportMerge, nil
	}
	return 0, fmt.Errorf("unknown import mode %q (want action, replace or merge)", s)
}

// Policy returns the reconcile policy of the mode. ImportAction ignores the
// filter since it always rebuilds the whole action.
func (m ImportMode) Policy(filter Filter) Policy {
	switch m {
	case ImportMerge:
		return Policy{ReplaceCurve: false, Filter: filter}
	case ImportReplace:
		return Policy{ReplaceCurve: true, Filter: filter}
	default:
		return Policy{ReplaceCurve: true}
	}
}

// Service runs the user-facing export and import operations.
type Service struct {
	mu       sync.RWMutex
	codec    DocumentCodec
	logger   *slog.Logger
	reporter Reporter
	stats    ServiceStats
}

// NewService creates a new Service. Logger and reporter may be nil.
func NewService(codec DocumentCodec, logger *slog.Logger, reporter Reporter) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if reporter == nil {
		reporter = ReporterFunc(func(Level, string) {})
	}
	return &Service{
		codec:    codec,
		logger:   logger,
		reporter: reporter,
	}
}

// Export writes the active action of target to path.
func (s *Service) Export(ctx context.Context, target Target, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := BuildDocument(target, s.logger)
	if err != nil {
		return s.fail("export", path, err)
	}

	s.logger.Info("writing curve data", "path", path, "action", doc.Name, "keyframes", len(doc.Keyframes))
	if err := s.codec.WriteDocument(path, doc); err != nil {
		return s.fail("export", path, err)
	}

	s.record(func(st *ServiceStats) { st.Exports++ })
	s.reporter.Report(LevelInfo, fmt.Sprintf("Exported %d keyframes of %q to %s", len(doc.Keyframes), doc.Name, path))
	return nil
}

// ImportAction clears the animation data of target and assigns a new action
// built from the document at path.
func (s *Service) ImportAction(ctx context.Context, factory ActionFactory, target Target, path string) (Result, error) {
	return s.Import(ctx, factory, target, path, ImportAction, nil)
}

// ReplaceCurves replaces the channels of the active action that appear in the
// document and adds the missing ones.
func (s *Service) ReplaceCurves(ctx context.Context, target Target, path string, filter Filter) (Result, error) {
	return s.Import(ctx, nil, target, path, ImportReplace, filter)
}

// MergeCurves merges the document into the channels of the active action and
// adds the missing ones.
func (s *Service) MergeCurves(ctx context.Context, target Target, path string, filter Filter) (Result, error) {
	return s.Import(ctx, nil, target, path, ImportMerge, filter)
}

// Import reads the document at path and reconciles it into target according to mode.
// The document is fully read and validated before target is touched.
func (s *Service) Import(ctx context.Context, factory ActionFactory, target Target, path string, mode ImportMode, filter Filter) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	op := "import " + mode.String()

	var action Curves
	switch mode {
	case ImportReplace, ImportMerge:
		action = activeAction(target)
		if action == nil {
			return Result{}, s.fail(op, path, fmt.Errorf("%w: %s", ErrNoActiveAction, target.Name()))
		}
	case ImportAction:
		if factory == nil {
			return Result{}, s.fail(op, path, errors.New("no action factory configured"))
		}
	default:
		return Result{}, s.fail(op, path, fmt.Errorf("unsupported import mode %v", mode))
	}

	doc, err := s.codec.ReadDocument(path)
	if err != nil {
		return Result{}, s.fail(op, path, err)
	}

	if mode == ImportAction {
		target.ClearAnimationData()
		ad := target.CreateAnimationData()
		action, err = factory.NewAction(doc.Name)
		if err != nil {
			return Result{}, s.fail(op, path, fmt.Errorf("create action %q: %w", doc.Name, err))
		}
		ad.SetAction(action)
	}

	res, err := Reconcile(action, doc.Keyframes, mode.Policy(filter), s.logger)
	if err != nil {
		return res, s.fail(op, path, err)
	}

	s.logger.Info("curves imported",
		"path", path,
		"mode", mode.String(),
		"action", action.Name(),
		"inserted", res.Inserted,
		"skipped", res.Skipped,
		"created", res.Created,
		"replaced", res.Replaced,
		"merged", res.Merged,
	)
	s.record(func(st *ServiceStats) { st.Imports++ })
	s.reporter.Report(LevelInfo, fmt.Sprintf("Imported %d keyframes into %q", res.Inserted, action.Name()))
	return res, nil
}

// ReadDocument reads and validates the document at path without touching any host state.
func (s *Service) ReadDocument(ctx context.Context, path string) (*ActionDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := s.codec.ReadDocument(path)
	if err != nil {
		return nil, s.fail("read", path, err)
	}
	return doc, nil
}

// WriteDocument writes doc to path with the service codec.
func (s *Service) WriteDocument(ctx context.Context, path string, doc *ActionDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.codec.WriteDocument(path, doc); err != nil {
		return s.fail("write", path, err)
	}
	return nil
}

// fail logs and reports err together, then returns it wrapped with the operation.
func (s *Service) fail(op, path string, err error) error {
	s.logger.Error(op+" failed", "path", path, "error", err)
	s.reporter.Report(LevelError, err.Error())
	s.record(func(st *ServiceStats) {
		st.Failures++
		now := time.Now()
		st.LastFailure = &now
		st.LastError = err.Error()
	})
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) record(fn func(*ServiceStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.stats)
}
