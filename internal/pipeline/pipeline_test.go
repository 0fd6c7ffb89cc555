package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sadopc/puml2sql/internal/diag"
	"github.com/sadopc/puml2sql/internal/generator"
)

const diagram = `@startuml
class User
#id INT AUTO_INCREMENT
-roleId INT REF(Role.id) DEFAULT(0)
-kind ENUM(Missing) UNIQUE
}
class Role
#id INT AUTO_INCREMENT
}
class User
}
@enduml`

func TestConvert(t *testing.T) {
	var c diag.Collector
	res, err := Convert(context.Background(), diagram, &c, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if !strings.Contains(res.DDL, "CREATE TABLE IF NOT EXISTS User (") ||
		!strings.Contains(res.DDL, "CREATE TABLE IF NOT EXISTS Role (") {
		t.Errorf("DDL missing tables:\n%s", res.DDL)
	}
	if strings.Index(res.DDL, "CREATE TABLE IF NOT EXISTS User") > strings.Index(res.DDL, "CREATE TABLE IF NOT EXISTS Role") {
		t.Error("tables not in declaration order")
	}
	if !strings.HasSuffix(res.DDL, "ALTER TABLE User ADD CONSTRAINT fk_User_roleId FOREIGN KEY (roleId) REFERENCES Role(id);\n") {
		t.Errorf("DDL does not end with the deferred constraint:\n%s", res.DDL)
	}

	// Parse diagnostics come before generation diagnostics.
	items := c.Items()
	if len(items) != 2 || items[0].Kind != diag.DuplicateTable || items[1].Kind != diag.MissingEnumDeclaration {
		t.Errorf("diagnostics = %+v", items)
	}
	if res.Lines != 12 {
		t.Errorf("Lines = %d, want 12", res.Lines)
	}
	if res.Dropped != 1 || len(res.ForeignKeys) != 1 || len(res.Statements) != 3 {
		t.Errorf("result = %+v", res)
	}
	if res.Schema == nil || len(res.Schema.Tables()) != 2 {
		t.Error("Schema not returned")
	}
}

func TestRun_Deterministic(t *testing.T) {
	first, err := Convert(context.Background(), diagram, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		next, err := Convert(context.Background(), diagram, nil, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if next.DDL != first.DDL {
			t.Fatalf("run %d produced different DDL", i)
		}
	}
}

func TestRun_GeneratorOptions(t *testing.T) {
	res, err := Convert(context.Background(), diagram, nil, Options{
		Generator: generator.Options{StrictKeys: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	loose, _ := Convert(context.Background(), diagram, nil, Options{})
	if !strings.Contains(loose.DDL, "idx_User_kind") {
		t.Errorf("loose run dropped the unique listing:\n%s", loose.DDL)
	}
	if strings.Contains(res.DDL, "kind") {
		t.Errorf("strict run kept dropped column in key listings:\n%s", res.DDL)
	}
}

type failingSource struct {
	lines []string
	err   error
}

func (s *failingSource) Next(context.Context) (string, error) {
	if len(s.lines) == 0 {
		return "", s.err
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func TestRun_SourceFailure(t *testing.T) {
	readErr := errors.New("disk on fire")
	src := &failingSource{lines: []string{"@startuml", "class A", "}"}, err: readErr}

	var c diag.Collector
	res, err := Run(context.Background(), src, &c, Options{})
	if res != nil {
		t.Errorf("Run() result = %+v, want nil on source failure", res)
	}
	if !errors.Is(err, ErrSource) || !errors.Is(err, readErr) {
		t.Errorf("Run() error = %v, want ErrSource wrapping the read error", err)
	}
	if !strings.Contains(err.Error(), "after line 3") {
		t.Errorf("error %q does not name the last line", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, NewSliceSource([]string{"@startuml"}), nil, Options{})
	if !errors.Is(err, context.Canceled) || !errors.Is(err, ErrSource) {
		t.Errorf("Run() error = %v, want cancellation", err)
	}
}

func TestChanSource(t *testing.T) {
	ch := make(chan Line)
	go func() {
		defer close(ch)
		for _, l := range strings.Split(diagram, "\n") {
			ch <- Line{Text: l}
		}
	}()

	res, err := Run(context.Background(), NewChanSource(ch), nil, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want, _ := Convert(context.Background(), diagram, nil, Options{})
	if res.DDL != want.DDL {
		t.Error("streamed run differs from in-memory run")
	}
}

func TestChanSource_Error(t *testing.T) {
	ch := make(chan Line, 2)
	ch <- Line{Text: "@startuml"}
	ch <- Line{Err: io.ErrUnexpectedEOF}
	close(ch)

	_, err := Run(context.Background(), NewChanSource(ch), nil, Options{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Run() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReaderSource_CRLF(t *testing.T) {
	src := NewReaderSource(strings.NewReader("a\r\nb\n"))
	ctx := context.Background()
	for _, want := range []string{"a", "b"} {
		got, err := src.Next(ctx)
		if err != nil || got != want {
			t.Fatalf("Next() = %q, %v; want %q", got, err, want)
		}
	}
	if _, err := src.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Next() at end error = %v, want io.EOF", err)
	}
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource([]string{"x"})
	if l, err := src.Next(context.Background()); err != nil || l != "x" {
		t.Fatalf("Next() = %q, %v", l, err)
	}
	if _, err := src.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("Next() at end error = %v, want io.EOF", err)
	}
}

func TestConvert_BlocksAfterEndMarker(t *testing.T) {
	var c diag.Collector
	res, err := Convert(context.Background(), "@startuml\nclass A\n#id INT\n}\n@enduml\nclass B\n#id INT\n}\n", &c, Options{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	for _, want := range []string{"CREATE TABLE IF NOT EXISTS A (", "CREATE TABLE IF NOT EXISTS B ("} {
		if !strings.Contains(res.DDL, want) {
			t.Errorf("DDL missing %q:\n%s", want, res.DDL)
		}
	}
	if c.Len() != 0 {
		t.Errorf("unexpected diagnostics: %+v", c.Items())
	}
}
