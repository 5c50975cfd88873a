package reconciliation

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/feature/ingest"
	"ledger-reconciler/feature/output"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidInput is returned when an uploaded feed cannot be read.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPersistence is returned when a sink or the mirror failed. The run is still returned.
	ErrPersistence = errors.New("failed to persist run")
)

// TableSink receives the result tables of a run.
type TableSink interface {
	Write(ctx context.Context, result *reconcile.Result) error
}

// ObjectMirror copies written output files to object storage.
type ObjectMirror interface {
	Upload(ctx context.Context, runID string, paths []string) ([]string, error)
}

// Request describes a file-based run.
type Request struct {
	ProcessorPath string
	LedgerPath    string
	OutDir        string
	Tolerance     reconcile.Tolerance
}

// Service runs reconciliations.
type Service struct {
	defaults reconcile.Config
	loader   *ingest.Loader
	sinks    []TableSink
	mirror   ObjectMirror
	cache    *RunCache
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSink adds a table sink.
func WithSink(sink TableSink) Option {
	return func(s *Service) { s.sinks = append(s.sinks, sink) }
}

// WithMirror sets the object mirror for written files.
func WithMirror(mirror ObjectMirror) Option {
	return func(s *Service) { s.mirror = mirror }
}

// WithCache replaces the default run cache.
func WithCache(cache *RunCache) Option {
	return func(s *Service) { s.cache = cache }
}

// NewService creates a new reconciliation service.
func NewService(defaults reconcile.Config, loader *ingest.Loader, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = ingest.NewLoader(nil, logger)
	}
	s := &Service{
		defaults: defaults,
		loader:   loader,
		cache:    NewRunCache(DefaultCacheTTL),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the configured run defaults.
func (s *Service) Defaults() reconcile.Config {
	return s.defaults
}

// Reconcile loads both feeds, reconciles them, writes the output files and
// persists the result. On a persistence failure the run is returned together
// with an error wrapping ErrPersistence.
func (s *Service) Reconcile(ctx context.Context, req Request) (*Run, error) {
	feeds, err := s.loader.LoadFeeds(ctx, req.ProcessorPath, req.LedgerPath)
	if err != nil {
		return nil, err
	}

	run, err := s.execute(feeds.Processor, feeds.Ledger, req.Tolerance)
	if err != nil {
		return nil, err
	}

	files, err := output.WriteFiles(req.OutDir, run.Result, run.Document())
	if err != nil {
		return nil, err
	}
	run.Files = files
	s.cache.Put(run)

	s.logger.Info("Reconciliation completed",
		zap.String("run_id", run.ID),
		zap.Int("matched", run.Result.Summary.MatchedRows),
		zap.Int("exceptions", run.Result.Summary.ExceptionRows),
		zap.Float64("match_rate_pct", run.Result.Summary.MatchRatePct),
	)

	return run, s.persist(ctx, run)
}

// ReconcileUpload reconciles two uploaded CSV feeds. Identical uploads with
// the same tolerance share one run while it is cached.
func (s *Service) ReconcileUpload(ctx context.Context, processor, ledger []byte, tol reconcile.Tolerance) (*Run, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}

	return s.cache.GetOrBuild(uploadDigest(processor, ledger, tol), func() (*Run, error) {
		processorRows, err := ingest.ReadRows(bytes.NewReader(processor), reconcile.ProcessorColumns)
		if err != nil {
			return nil, fmt.Errorf("%w: processor feed: %w", ErrInvalidInput, err)
		}
		ledgerRows, err := ingest.ReadRows(bytes.NewReader(ledger), reconcile.LedgerColumns)
		if err != nil {
			return nil, fmt.Errorf("%w: ledger feed: %w", ErrInvalidInput, err)
		}

		run, err := s.execute(processorRows, ledgerRows, tol)
		if err != nil {
			return nil, err
		}
		if err := s.persist(ctx, run); err != nil {
			s.logger.Warn("Upload run not persisted", zap.String("run_id", run.ID), zap.Error(err))
		}
		return run, nil
	})
}

// Run returns a cached run by id.
func (s *Service) Run(id string) (*Run, bool) {
	return s.cache.Get(id)
}

func (s *Service) execute(processorRows, ledgerRows []reconcile.RawRow, tol reconcile.Tolerance) (*Run, error) {
	result, err := reconcile.RunRaw(processorRows, ledgerRows, tol)
	if err != nil {
		return nil, err
	}
	return &Run{
		ID:          uuid.New().String(),
		GeneratedAt: s.now().UTC(),
		Tolerance:   tol,
		Result:      result,
	}, nil
}

func (s *Service) persist(ctx context.Context, run *Run) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, run.Result); err != nil {
			errs = append(errs, err)
		}
	}

	if s.mirror != nil && len(run.Files) > 0 {
		keys, err := s.mirror.Upload(ctx, run.ID, run.Files)
		if err != nil {
			errs = append(errs, err)
		}
		run.Objects = keys
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersistence, errors.Join(errs...))
	}
	return nil
}

func uploadDigest(processor, ledger []byte, tol reconcile.Tolerance) string {
	h := sha256.New()
	for _, part := range [][]byte{processor, ledger} {
		sum := sha256.Sum256(part)
		h.Write(sum[:])
	}
	h.Write([]byte(tol.Amount.String() + "|" + strconv.Itoa(tol.DateWindowDays)))
	return hex.EncodeToString(h.Sum(nil))
}
