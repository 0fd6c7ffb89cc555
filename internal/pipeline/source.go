package pipeline

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// LineSource yields input lines in order. Next returns io.EOF once the input
// is exhausted; any other error fails the run.
type LineSource interface {
	Next(ctx context.Context) (string, error)
}

// readerSource reads newline-separated lines from an io.Reader.
type readerSource struct {
	sc *bufio.Scanner
}

// maxLineSize bounds a single diagram line.
const maxLineSize = 1 << 20

// NewReaderSource returns a LineSource over r. "\r\n" line endings are
// accepted.
func NewReaderSource(r io.Reader) LineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &readerSource{sc: sc}
}

func (s *readerSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(s.sc.Text(), "\r"), nil
}

// sliceSource yields lines from memory.
type sliceSource struct {
	lines []string
	pos   int
}

// NewSliceSource returns a LineSource over lines.
func NewSliceSource(lines []string) LineSource {
	return &sliceSource{lines: lines}
}

// NewStringSource splits text into lines.
func NewStringSource(text string) LineSource {
	return NewReaderSource(strings.NewReader(text))
}

func (s *sliceSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	l := s.lines[s.pos]
	s.pos++
	return l, nil
}

// Line is one item of a streamed input. A non-nil Err fails the run.
type Line struct {
	Text string
	Err  error
}

type chanSource struct {
	ch <-chan Line
}

// NewChanSource returns a LineSource fed by a producer goroutine. The
// producer closes ch at end of input.
func NewChanSource(ch <-chan Line) LineSource {
	return &chanSource{ch: ch}
}

func (s *chanSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-s.ch:
		if !ok {
			return "", io.EOF
		}
		if l.Err != nil {
			return "", l.Err
		}
		return l.Text, nil
	}
}
