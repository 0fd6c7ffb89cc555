package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/puml2sql/internal/adapter"
	"github.com/sadopc/puml2sql/internal/audit"
	"github.com/sadopc/puml2sql/internal/config"
	"github.com/sadopc/puml2sql/internal/diag"
	"github.com/sadopc/puml2sql/internal/generator"
	"github.com/sadopc/puml2sql/internal/highlight"
	"github.com/sadopc/puml2sql/internal/history"
	"github.com/sadopc/puml2sql/internal/pipeline"
	"github.com/sadopc/puml2sql/internal/report"
	"github.com/sadopc/puml2sql/internal/theme"
)

// stdinName is the input argument that reads the diagram from stdin.
const stdinName = "-"

type runOptions struct {
	input  string
	output string
	stdout bool
	color  bool
	theme  string
	apply  string
	legacy bool
	strict bool
	quiet  bool

	// set when the flag was given explicitly and overrides the config file
	legacySet bool
	strictSet bool
	colorSet  bool
}

// runner carries everything one conversion needs. Fields other than cfg may
// be nil.
type runner struct {
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	hist   *history.History
	audit  *audit.Logger
	now    func() time.Time

	// connect opens the apply target; nil uses the registered mysql adapter.
	connect func(ctx context.Context, dsn string) (adapter.Connection, error)
}

func (r *runner) run(ctx context.Context, o runOptions) (err error) {
	start := r.now()

	genOpts, err := r.cfg.GeneratorOptions()
	if err != nil {
		return err
	}
	if o.legacySet {
		genOpts.Resolution = generator.Settled
		if o.legacy {
			genOpts.Resolution = generator.Legacy
		}
	}
	if o.strictSet {
		genOpts.StrictKeys = o.strict
	}

	th := r.theme(o)
	printer := report.New(r.stderr, th)
	var collected diag.Collector

	output := o.output
	if output == "" {
		output = r.cfg.Output.Path
	}
	if output == "" {
		output = config.DefaultConfig().Output.Path
	}
	if o.stdout {
		output = ""
	}

	rec := runRecord{input: o.input, output: output}
	defer func() {
		rec.diagnostics = collected.Items()
		rec.duration = r.now().Sub(start)
		rec.err = err
		r.record(rec)
	}()

	in, closeIn, err := r.openInput(o.input)
	if err != nil {
		return err
	}
	defer closeIn()

	res, err := pipeline.Run(ctx, pipeline.NewReaderSource(in), diag.Tee(printer, &collected), pipeline.Options{
		Generator: genOpts,
	})
	if err != nil {
		return fmt.Errorf("read %s: %w", o.input, err)
	}
	rec.tables = len(res.Schema.Tables())
	rec.statements = len(res.Statements)
	rec.dropped = res.Dropped

	if o.stdout {
		ddl := res.DDL
		if th != nil {
			ddl = highlight.New().Highlight(ddl, th)
		}
		if _, err := io.WriteString(r.stdout, ddl); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	} else if err := os.WriteFile(output, []byte(res.DDL), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if !o.quiet {
		printer.Summary(report.Summary{
			Output:      output,
			Tables:      rec.tables,
			Statements:  len(res.Statements),
			ForeignKeys: len(res.ForeignKeys),
			Dropped:     res.Dropped,
			Diagnostics: collected.Items(),
		})
	}

	if o.apply == "" {
		return nil
	}
	dsn, target := r.resolveTarget(o.apply)
	rec.dsn, rec.target = dsn, target

	executed, err := r.applyStatements(ctx, dsn, res.Statements)
	if err != nil {
		return fmt.Errorf("apply to %s: %w", target, err)
	}
	if !o.quiet {
		printer.Applied(target, executed)
	}
	return nil
}

// theme picks the color theme, or nil for plain output.
func (r *runner) theme(o runOptions) *theme.Theme {
	return selectTheme(r.stderr, r.cfg, o.colorSet, o.color, o.theme)
}

// selectTheme returns nil when color is off. The flag values win over the
// config when set; an unknown theme name warns on w and falls back to the
// default theme.
func selectTheme(w io.Writer, cfg *config.Config, colorSet, color bool, name string) *theme.Theme {
	if !colorSet {
		color = cfg.Color
	}
	if !color {
		return nil
	}
	if name == "" {
		name = cfg.Theme
	}
	th, ok := theme.Lookup(name)
	if !ok {
		fmt.Fprintf(w, "Warning: unknown theme %q, using default\n", name)
		th = theme.Default()
	}
	return th
}

func (r *runner) openInput(name string) (io.Reader, func(), error) {
	if name == stdinName {
		return r.stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// resolveTarget turns an --apply argument into a DSN and a credential-free
// display string. Saved connection names win over raw DSNs.
func (r *runner) resolveTarget(arg string) (dsn, display string) {
	if sc, ok := r.cfg.Connection(arg); ok {
		return sc.BuildDSN(), sc.DisplayString()
	}
	return arg, audit.SanitizeDSN(arg)
}

func (r *runner) applyStatements(ctx context.Context, dsn string, statements []string) (int, error) {
	connect := r.connect
	if connect == nil {
		a, err := adapter.Lookup("mysql")
		if err != nil {
			return 0, err
		}
		connect = a.Connect
	}

	conn, err := connect(ctx, dsn)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.Apply(ctx, statements)
	executed := 0
	if res != nil {
		executed = res.Executed
	}
	var stmtErr *adapter.StatementError
	if errors.As(err, &stmtErr) {
		return executed, fmt.Errorf("%d of %d statements applied: %w", executed, len(statements), err)
	}
	return executed, err
}

type runRecord struct {
	input       string
	output      string
	target      string
	dsn         string
	tables      int
	statements  int
	dropped     int
	diagnostics []diag.Diagnostic
	duration    time.Duration
	err         error
}

// record writes the run to history and the audit log. Failures only warn.
func (r *runner) record(rec runRecord) {
	at := r.now()
	if r.hist != nil {
		err := r.hist.Add(history.Entry{
			Input:       rec.input,
			Output:      rec.output,
			Target:      rec.target,
			Tables:      rec.tables,
			Statements:  rec.statements,
			Diagnostics: len(rec.diagnostics),
			ExecutedAt:  at,
			DurationMS:  rec.duration.Milliseconds(),
			IsError:     rec.err != nil,
		})
		if err != nil {
			fmt.Fprintf(r.stderr, "Warning: could not record history: %v\n", err)
		}
	}

	entry := audit.Entry{
		Timestamp:   at,
		Input:       rec.input,
		Output:      rec.output,
		Tables:      rec.tables,
		Statements:  rec.statements,
		Dropped:     rec.dropped,
		Diagnostics: rec.diagnostics,
		DurationMS:  rec.duration.Milliseconds(),
		IsError:     rec.err != nil,
		DSN:         rec.dsn,
	}
	if rec.err != nil {
		entry.Error = rec.err.Error()
	}
	r.audit.Log(entry)
}
