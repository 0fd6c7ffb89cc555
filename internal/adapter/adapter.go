package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrNotConnected   = errors.New("not connected to database")
	ErrUnknownAdapter = errors.New("unknown adapter")
)

// Adapter creates database connections.
type Adapter interface {
	Connect(ctx context.Context, dsn string) (Connection, error)
	Name() string
	DefaultPort() int
}

// Connection represents an active database connection that generated DDL
// can be applied to.
type Connection interface {
	// Apply executes statements in order and stops at the first failure,
	// which is returned as a *StatementError.
	Apply(ctx context.Context, statements []string) (*ApplyResult, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Info
	DatabaseName() string
	AdapterName() string
}

// ApplyResult summarizes a successful or partial Apply.
type ApplyResult struct {
	Executed int
	Duration time.Duration
}

// StatementError reports which statement of an Apply call failed.
type StatementError struct {
	Index     int // zero-based position in the applied slice
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	stmt := strings.TrimSpace(e.Statement)
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		stmt = stmt[:i] + " ..."
	}
	return fmt.Sprintf("statement %d (%s): %v", e.Index+1, stmt, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Registry holds registered adapters by name.
var Registry = map[string]Adapter{}

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	Registry[a.Name()] = a
}

// Lookup returns the registered adapter called name.
func Lookup(name string) (Adapter, error) {
	a, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (registered: %s)", ErrUnknownAdapter, name, strings.Join(Names(), ", "))
	}
	return a, nil
}

// Names returns the registered adapter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for n := range Registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
