// Package app provides application services that orchestrate the compiler.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/artpar/judegen/core/emit"
	"github.com/artpar/judegen/core/formatter"
	"github.com/artpar/judegen/core/loader"
	"github.com/artpar/judegen/core/resolve"
	"github.com/artpar/judegen/core/schema"
	"github.com/artpar/judegen/ports"
	"github.com/rs/zerolog"
)

// Session outcomes reported to metrics.
const (
	OutcomeOK             = "ok"
	OutcomeSyntax         = "syntax"
	OutcomePermission     = "permission"
	OutcomeTagConflict    = "tag_conflict"
	OutcomeUnresolvedType = "unresolved_type"
	OutcomeCyclic         = "cyclic_dependency"
	OutcomeImportCycle    = "import_cycle"
	OutcomeIO             = "io"
	OutcomeOtherError     = "error"
)

// CompileDeps contains dependencies for CompileService.
type CompileDeps struct {
	Source  ports.DocumentSource
	Output  ports.OutputWriter
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Metrics ports.Metrics // optional
}

// CompileConfig contains hot-reloadable compile options.
type CompileConfig struct {
	OutputDir string
	Format    string
	Emit      emit.Config
}

// Result describes one finished session.
type Result struct {
	Session   string
	Root      string
	Schema    string
	Documents int
	Sources   []string // paths of every loaded document, imports first; filled on failure too
	Bundle    *emit.Bundle
	Output    []byte
	Path      string // empty for check-only sessions
	Written   bool
	Duration  time.Duration
}

// CompileService runs compile sessions: load, resolve, emit, format and
// write. Sessions share no mutable state, so Compile may be called
// concurrently.
type CompileService struct {
	src     ports.DocumentSource
	out     ports.OutputWriter
	clock   ports.Clock
	idGen   ports.IDGenerator
	metrics ports.Metrics
	logger  zerolog.Logger

	cfg atomic.Pointer[CompileConfig]
}

// NewCompileService creates a new compile service.
func NewCompileService(deps CompileDeps, cfg CompileConfig, logger zerolog.Logger) *CompileService {
	s := &CompileService{
		src:     deps.Source,
		out:     deps.Output,
		clock:   deps.Clock,
		idGen:   deps.IDGen,
		metrics: deps.Metrics,
		logger:  logger,
	}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig replaces the compile options used by later sessions.
func (s *CompileService) UpdateConfig(cfg CompileConfig) {
	s.cfg.Store(&cfg)
}

// Config returns the current compile options.
func (s *CompileService) Config() CompileConfig {
	return *s.cfg.Load()
}

// Compile compiles the document at root and writes the rendered bundle to
// <output dir>/<schema>/<schema>.<ext>. Nothing is written when any step
// fails.
func (s *CompileService) Compile(ctx context.Context, root string) (Result, error) {
	return s.run(ctx, root, true)
}

// Check compiles the document at root without writing anything.
func (s *CompileService) Check(ctx context.Context, root string) (Result, error) {
	return s.run(ctx, root, false)
}

func (s *CompileService) run(ctx context.Context, root string, write bool) (Result, error) {
	cfg := s.Config()
	res := Result{Session: s.idGen.New(), Root: s.src.Resolve("", root)}
	logger := s.logger.With().Str("session", res.Session).Str("root", res.Root).Logger()
	start := s.clock.Now()

	err := s.compile(ctx, cfg, &res, logger, write)
	res.Duration = s.clock.Now().Sub(start)

	if s.metrics != nil {
		s.metrics.RecordSession(Outcome(err), res.Duration)
	}
	if err != nil {
		logger.Debug().Err(err).Dur("duration", res.Duration).Msg("session failed")
		return res, err
	}

	logger.Info().
		Str("schema", res.Schema).
		Int("documents", res.Documents).
		Str("path", res.Path).
		Bool("written", res.Written).
		Dur("duration", res.Duration).
		Msg("session complete")
	return res, nil
}

func (s *CompileService) compile(ctx context.Context, cfg CompileConfig, res *Result, logger zerolog.Logger, write bool) error {
	f, err := formatter.Lookup(cfg.Format)
	if err != nil {
		return err
	}

	ld := loader.New(s.src, logger)
	prog, err := ld.Load(ctx, res.Root)
	if err != nil {
		res.Sources = ld.Tried()
		return err
	}
	res.Documents = len(prog.Namespaces)
	for _, ns := range prog.Namespaces {
		res.Sources = append(res.Sources, ns.Path)
	}

	model, err := resolve.Resolve(prog, resolve.Options{Logger: logger})
	if err != nil {
		return err
	}
	res.Schema = model.Schema

	bundle, err := emit.Emit(model, cfg.Emit)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := f.FormatBundle(&buf, bundle, formatter.FormatOptions{}); err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}

	if s.metrics != nil {
		s.metrics.RecordDocuments(res.Documents)
		s.metrics.RecordEntities("object", len(bundle.Objects))
		s.metrics.RecordEntities("enum", len(bundle.Enums))
		s.metrics.RecordEntities("bitmask", len(bundle.Bitmasks))
		s.metrics.RecordEntities("database", len(bundle.Databases))
		s.metrics.RecordEntities("constant", len(bundle.Constants))
	}

	if write {
		dir := filepath.Join(cfg.OutputDir, bundle.Schema)
		path := filepath.Join(dir, bundle.Schema+"."+f.Extension())
		if err := s.out.EnsureDir(ctx, dir); err != nil {
			return &WriteError{Path: dir, Err: err}
		}
		written, err := s.out.Write(ctx, path, buf.Bytes())
		if err != nil {
			return &WriteError{Path: path, Err: err}
		}
		if s.metrics != nil {
			s.metrics.RecordWrite(written)
		}
		res.Path = path
		res.Written = written
	}

	res.Bundle = bundle
	res.Output = buf.Bytes()
	return nil
}

// WriteError reports a failure to store output.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Outcome classifies a session error for metrics.
func Outcome(err error) string {
	var (
		syntax     *schema.DefinitionSyntaxError
		permission *schema.InvalidPermissionError
		tags       *schema.TagConflictError
		unresolved *schema.UnresolvedTypeError
		cyclic     *schema.CyclicDependencyError
		imports    *schema.ImportCycleError
		write      *WriteError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &syntax):
		return OutcomeSyntax
	case errors.As(err, &permission):
		return OutcomePermission
	case errors.As(err, &tags):
		return OutcomeTagConflict
	case errors.As(err, &unresolved):
		return OutcomeUnresolvedType
	case errors.As(err, &cyclic):
		return OutcomeCyclic
	case errors.As(err, &imports):
		return OutcomeImportCycle
	case errors.As(err, &write):
		return OutcomeIO
	default:
		return OutcomeOtherError
	}
}
