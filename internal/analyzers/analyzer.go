// Package analyzers provides compile-only syntax checking for the
// expression-bearing parameter syntaxes a node type may declare. The flow
// core never evaluates these expressions; analyzers exist so the builder can
// flag a broken expression at edit time instead of at execution time.
package analyzers

import (
	"sort"
	"sync"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// Analyzer checks the syntax of one expression language.
// Implementations cache compiled artifacts and are safe for concurrent use.
type Analyzer interface {
	Name() string
	Check(source string) error
}

var (
	mu       sync.RWMutex
	registry = map[string]Analyzer{}
)

func init() {
	celAn, err := NewCELAnalyzer()
	if err != nil {
		// The embedded CEL environment is static; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	for _, a := range []Analyzer{
		celAn,
		NewExprAnalyzer(),
		NewJQAnalyzer(),
		NewCronAnalyzer(),
	} {
		registry[a.Name()] = a
	}
}

// Check validates source against the named syntax. Unknown syntaxes fail with
// a VALIDATION_ERROR so a typo in a package manifest surfaces loudly.
func Check(syntax, source string) error {
	mu.RLock()
	a, ok := registry[syntax]
	mu.RUnlock()
	if !ok {
		return schema.NewErrorf(schema.ErrCodeValidation, "unknown parameter syntax %q", syntax)
	}
	return a.Check(source)
}

// Known reports whether a syntax name has a registered analyzer.
func Known(syntax string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[syntax]
	return ok
}

// Names returns the registered syntax names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
