package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nameready/nameready/internal/domain"
)

// Checker is a mock trademark checker for testing and development. It lets
// the service run without registry credentials.
type Checker struct {
	logger *slog.Logger

	// Result, when set, is returned for every check.
	Result *domain.CheckResult

	mu    sync.Mutex
	calls int
}

// New creates a new mock trademark checker.
func New(logger *slog.Logger) *Checker {
	return &Checker{
		logger: logger,
	}
}

// Check returns the configured result, or a canned "available" result.
func (c *Checker) Check(ctx context.Context, name string) domain.CheckResult {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("mock trademark check", "name", name)
	}

	if c.Result != nil {
		return *c.Result
	}

	return domain.CheckResult{
		Label:          "Trademark (IP Australia)",
		Status:         domain.StatusAvailable,
		Summary:        "No registered word trademarks were found in Australia.",
		WhyThisMatters: "This lowers risk, but it's not a guarantee. Similar marks, pending applications, or other rights may still exist.",
		Details:        "Mock trademark checker; no registry call was made.",
		ExactMatches:   []domain.TrademarkMatch{},
		SimilarMatches: []domain.TrademarkMatch{},
	}
}

// Calls reports how many checks have been run.
func (c *Checker) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
