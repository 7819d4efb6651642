package analyzers

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// CELAnalyzer checks condition parameters written in Google's Common
// Expression Language. The environment exposes the three top-level variables
// a workflow expression may reference at runtime:
//   - data:   map(string, dyn): upstream node outputs keyed by instance ID
//   - params: map(string, dyn): the node's own parameter values
//   - env:    map(string, dyn): deployment environment metadata
//
// Thread-safe: compiled ASTs are cached and reused across goroutines.
type CELAnalyzer struct {
	env *cel.Env

	mu    sync.RWMutex
	cache map[string]*cel.Ast
}

// NewCELAnalyzer creates a CEL analyzer with a sandboxed environment.
func NewCELAnalyzer() (*CELAnalyzer, error) {
	mapType := cel.MapType(cel.StringType, cel.DynType)

	env, err := cel.NewEnv(
		cel.Variable("data", mapType),
		cel.Variable("params", mapType),
		cel.Variable("env", mapType),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &CELAnalyzer{
		env:   env,
		cache: make(map[string]*cel.Ast),
	}, nil
}

// Name returns the analyzer identifier.
func (a *CELAnalyzer) Name() string {
	return "cel"
}

// Check compiles source, returning a FlowError with the compiler's message on
// failure. Nothing is evaluated.
func (a *CELAnalyzer) Check(source string) error {
	if source == "" {
		return schema.NewError(schema.ErrCodeValidation, "empty CEL expression")
	}

	a.mu.RLock()
	if _, ok := a.cache[source]; ok {
		a.mu.RUnlock()
		return nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock.
	if _, ok := a.cache[source]; ok {
		return nil
	}

	ast, issues := a.env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return schema.NewErrorf(schema.ErrCodeValidation,
			"CEL compile error in %q: %s", source, issues.Err().Error()).
			WithCause(issues.Err()).
			WithDetails(map[string]any{"expression": source})
	}

	a.cache[source] = ast
	return nil
}

var _ Analyzer = (*CELAnalyzer)(nil)
