// Package pipeline runs a conversion: lines in, DDL text out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sadopc/puml2sql/internal/diag"
	"github.com/sadopc/puml2sql/internal/generator"
	"github.com/sadopc/puml2sql/internal/parser"
	"github.com/sadopc/puml2sql/internal/schema"
)

// ErrSource wraps failures of the line source. A run that fails this way
// produces no DDL.
var ErrSource = errors.New("line source failed")

// Options configures a run.
type Options struct {
	Generator generator.Options
}

// Result is the output of a successful run.
type Result struct {
	DDL         string
	Statements  []string
	ForeignKeys []generator.ForeignKey
	Dropped     int
	Lines       int
	Schema      *schema.Schema
}

// Run parses every line of src and generates DDL from the finished model.
// Diagnostics are reported to sink as they occur; a nil sink discards them.
// If src fails or ctx is cancelled before the input is exhausted, Run
// returns an error wrapping ErrSource and no Result.
func Run(ctx context.Context, src LineSource, sink diag.Sink, opts Options) (*Result, error) {
	p := parser.New(sink)
	for {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w after line %d: %w", ErrSource, p.Line(), err)
		}
		p.Feed(line)
	}

	s := p.Finish()
	out := generator.Generate(s, sink, opts.Generator)
	return &Result{
		DDL:         out.DDL,
		Statements:  out.Statements,
		ForeignKeys: out.ForeignKeys,
		Dropped:     out.Dropped,
		Lines:       p.Line(),
		Schema:      s,
	}, nil
}

// Convert runs the pipeline over in-memory text.
func Convert(ctx context.Context, text string, sink diag.Sink, opts Options) (*Result, error) {
	return Run(ctx, NewStringSource(text), sink, opts)
}
