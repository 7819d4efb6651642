package analyzers

import (
	"github.com/robfig/cron/v3"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// CronAnalyzer checks schedule parameters written as standard 5-field cron
// expressions (minute hour dom month dow). The parser itself is stateless
// and cheap, so no cache is kept.
type CronAnalyzer struct {
	parser cron.Parser
}

// NewCronAnalyzer creates a cron expression analyzer.
func NewCronAnalyzer() *CronAnalyzer {
	return &CronAnalyzer{
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

// Name returns the analyzer identifier.
func (a *CronAnalyzer) Name() string {
	return "cron"
}

// Check parses source as a cron schedule.
func (a *CronAnalyzer) Check(source string) error {
	if source == "" {
		return schema.NewError(schema.ErrCodeValidation, "empty cron expression")
	}

	if _, err := a.parser.Parse(source); err != nil {
		return schema.NewErrorf(schema.ErrCodeValidation,
			"invalid cron expression %q: %s", source, err.Error()).
			WithCause(err).
			WithDetails(map[string]any{"expression": source})
	}
	return nil
}

var _ Analyzer = (*CronAnalyzer)(nil)
