package analyzers

import (
	"sync"

	"github.com/itchyny/gojq"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// JQAnalyzer checks extraction parameters written as jq expressions.
// Thread-safe: compiled *gojq.Code objects are cached across goroutines.
type JQAnalyzer struct {
	mu    sync.RWMutex
	cache map[string]*gojq.Code
}

// NewJQAnalyzer creates a jq syntax analyzer.
func NewJQAnalyzer() *JQAnalyzer {
	return &JQAnalyzer{
		cache: make(map[string]*gojq.Code),
	}
}

// Name returns the analyzer identifier.
func (a *JQAnalyzer) Name() string {
	return "jq"
}

// Check parses and compiles source. Compilation is included because it is
// what catches references to undefined functions, not just bad grammar.
func (a *JQAnalyzer) Check(source string) error {
	if source == "" {
		return schema.NewError(schema.ErrCodeValidation, "empty jq expression")
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

	query, err := gojq.Parse(source)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeValidation,
			"jq parse error in %q: %s", source, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": source})
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeValidation,
			"jq compile error in %q: %s", source, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": source})
	}

	a.cache[source] = code
	return nil
}

var _ Analyzer = (*JQAnalyzer)(nil)
