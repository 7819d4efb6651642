package analyzers

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// ExprAnalyzer checks parameters written in expr-lang/expr, used for complex
// deterministic logic (let bindings, array operations, nil coalescing,
// optional chaining, pipe chaining).
// Thread-safe: compiled *vm.Program objects are cached across goroutines.
type ExprAnalyzer struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewExprAnalyzer creates an Expr syntax analyzer.
func NewExprAnalyzer() *ExprAnalyzer {
	return &ExprAnalyzer{
		cache: make(map[string]*vm.Program),
	}
}

// Name returns the analyzer identifier.
func (a *ExprAnalyzer) Name() string {
	return "expr"
}

// Check compiles source with undefined variables allowed, since the runtime
// environment is only known to the execution backend.
func (a *ExprAnalyzer) Check(source string) error {
	if source == "" {
		return schema.NewError(schema.ErrCodeValidation, "empty expr expression")
	}

	a.mu.RLock()
	if _, ok := a.cache[source]; ok {
		a.mu.RUnlock()
		return nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.cache[source]; ok {
		return nil
	}

	prg, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeValidation,
			"expr compile error in %q: %s", source, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": source})
	}

	a.cache[source] = prg
	return nil
}

var _ Analyzer = (*ExprAnalyzer)(nil)
