// Package importer implements the CSV import pipeline: line-by-line
// decoding, per-row validation, and the insert-or-skip control flow that
// tallies outcomes.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/driftline-labs/userload/internal/adapter"
	"github.com/driftline-labs/userload/internal/cli/output"
	"github.com/driftline-labs/userload/internal/schema"
)

// Options controls a single import run.
type Options struct {
	// Path is the CSV file to import.
	Path string
	// DryRun validates rows without writing to the database.
	DryRun bool
	// ForceConnect makes a dry run still connect and verify the schema.
	ForceConnect bool
}

// Tally holds the per-run counters. Counters are monotonically
// non-decreasing within a run and reset for each invocation.
type Tally struct {
	// LinesSeen counts every post-header line consumed, skipped or not.
	LinesSeen int
	// RowsAccepted counts rows that passed validation and were inserted
	// (or, on a dry run, would have been).
	RowsAccepted int
	// RowsInserted counts rows actually written to the table.
	RowsInserted int
}

// Pipeline drives the row stream, applies the dry-run/insert policy, and
// reports a summary. One pipeline performs one run at a time; nothing is
// shared across runs.
type Pipeline struct {
	cfg    adapter.Config
	db     adapter.Adapter // pre-connected adapter, owned by the caller
	logger *slog.Logger
	out    *output.Renderer
}

// New creates a pipeline that connects using cfg when a run needs the
// database.
func New(cfg adapter.Config, logger *slog.Logger, out *output.Renderer) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{cfg: cfg, logger: logger, out: out}
}

// NewWithAdapter creates a pipeline over an already-connected adapter. The
// caller retains ownership of db and closes it.
func NewWithAdapter(db adapter.Adapter, logger *slog.Logger, out *output.Renderer) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{db: db, logger: logger, out: out}
}

// Run executes one import. On any fatal condition it returns an error
// without printing a summary; partial progress stays in the table.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Tally, error) {
	runID := uuid.New().String()[:8]
	logger := p.logger.With(slog.String("run_id", runID), slog.String("file", opts.Path))
	logger.Debug("starting import", slog.Bool("dry_run", opts.DryRun))

	tally := &Tally{}

	// Connect phase. A dry run stays fully offline unless forced.
	var db adapter.Adapter
	if !opts.DryRun || opts.ForceConnect {
		var err error
		var owned bool
		db, owned, err = p.connect(ctx)
		if err != nil {
			return nil, err
		}
		if owned {
			defer func() { _ = db.Close() }()
		}

		gate := schema.NewGatekeeper(db, logger)
		if err := gate.Verify(ctx); err != nil {
			return nil, err
		}
	}

	// Open phase.
	stream, err := Open(opts.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stream.Close() }()

	var ins adapter.InsertStmt
	if !opts.DryRun {
		ins, err = db.PrepareInsert(ctx, schema.TableName, schema.InsertColumns...)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer func() { _ = ins.Close() }()
	}

	// Drain phase.
	for {
		out := stream.Next()
		if out.Kind == EndOfStream {
			if out.Err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", stream.Name(), out.Err)
			}
			break
		}

		tally.LinesSeen++

		if out.Kind == Skipped {
			if out.Err != nil {
				logger.Warn("row skipped", slog.Int("line", out.Line), slog.String("reason", out.Reason))
				p.out.Warning(fmt.Sprintf("skipping line %d: %v", out.Line, out.Err))
			} else {
				logger.Debug("blank line skipped", slog.Int("line", out.Line))
			}
			continue
		}

		if len(out.Row.Extra) > 0 {
			logger.Info("extra columns ignored",
				slog.Int("line", out.Line), slog.Int("count", len(out.Row.Extra)))
			p.out.Muted(fmt.Sprintf("line %d: %d extra column(s) ignored", out.Line, len(out.Row.Extra)))
		}

		if opts.DryRun {
			tally.RowsAccepted++
			continue
		}

		n, err := ins.Exec(ctx, out.Row.Name, out.Row.Surname, out.Row.Email)
		if err != nil {
			if db.IsUniqueViolation(err) {
				logger.Warn("duplicate email, row not inserted",
					slog.Int("line", out.Line), slog.String("email", out.Row.Email))
				p.out.Warning(fmt.Sprintf("line %d: email %s already exists, skipped", out.Line, out.Row.Email))
				continue
			}
			return nil, fmt.Errorf("insert failed at %s:%d: %w", stream.Name(), out.Line, err)
		}

		tally.RowsAccepted++
		tally.RowsInserted += int(n)
	}

	// Report phase.
	p.report(stream.Name(), opts, tally)
	logger.Debug("import finished",
		slog.Int("lines_seen", tally.LinesSeen),
		slog.Int("rows_accepted", tally.RowsAccepted),
		slog.Int("rows_inserted", tally.RowsInserted))
	return tally, nil
}

// connect returns the pipeline's adapter, establishing a new connection from
// config when none was injected. The bool result reports whether the caller
// of Run owns (and must close) the connection.
func (p *Pipeline) connect(ctx context.Context) (adapter.Adapter, bool, error) {
	if p.db != nil {
		return p.db, false, nil
	}

	db, err := adapter.New(p.cfg, p.logger)
	if err != nil {
		return nil, false, err
	}
	if err := db.Connect(ctx, p.cfg); err != nil {
		return nil, false, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, true, nil
}

// report prints the run summary in the renderer's effective mode.
func (p *Pipeline) report(file string, opts Options, tally *Tally) {
	processed := tally.RowsInserted
	if opts.DryRun {
		processed = tally.RowsAccepted
	}

	summary := output.ImportSummary{
		File:         file,
		DryRun:       opts.DryRun,
		LinesSeen:    tally.LinesSeen,
		RowsAccepted: tally.RowsAccepted,
		RowsInserted: tally.RowsInserted,
	}

	switch p.out.EffectiveMode() {
	case output.ModeJSON:
		_ = p.out.JSON(summary)
	case output.ModeMarkdown:
		p.out.Println(output.FormatHeader(1, "Import"))
		p.out.Println("")
		p.out.Println(output.FormatKeyValue("File", file))
		p.out.Println(output.FormatKeyValue("Lines seen", fmt.Sprintf("%d", tally.LinesSeen)))
		p.out.Println(output.FormatKeyValue("Rows accepted", fmt.Sprintf("%d", tally.RowsAccepted)))
		p.out.Println(output.FormatKeyValue("Rows inserted", fmt.Sprintf("%d", tally.RowsInserted)))
		p.out.Printf("processed %d out of %d lines\n", processed, tally.LinesSeen)
		if opts.DryRun {
			p.out.Println("Dry run: no database changes were made.")
		}
	default:
		p.out.Println("")
		p.out.SummaryTable(
			[]string{"lines seen", "rows accepted", "rows inserted"},
			[]string{fmt.Sprintf("%d", tally.LinesSeen), fmt.Sprintf("%d", tally.RowsAccepted), fmt.Sprintf("%d", tally.RowsInserted)},
		)
		p.out.Success(fmt.Sprintf("processed %d out of %d lines", processed, tally.LinesSeen))
		if opts.DryRun {
			p.out.Muted("Dry run: no database changes were made.")
		}
	}
}
