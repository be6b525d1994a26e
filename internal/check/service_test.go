package check_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nameready/nameready/internal/check"
	"github.com/nameready/nameready/internal/check/demo"
	"github.com/nameready/nameready/internal/domain"
	"github.com/nameready/nameready/internal/trademark/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_AggregatesAllChecks(t *testing.T) {
	checker := mock.New(testLogger())
	svc := check.NewService(checker, demo.New(), testLogger())

	results := svc.Check(context.Background(), "Sunrise Labs")

	assert.Equal(t, "ASIC business name (AU)", results.BusinessName.Label)
	assert.Equal(t, "Trademark (IP Australia)", results.Trademark.Label)
	assert.Equal(t, domain.StatusAvailable, results.Trademark.Status)
	require.Len(t, results.Domains, 2)
	require.Len(t, results.Socials, 2)
	assert.Equal(t, 1, checker.Calls())
}

func TestService_PassesThroughTrademarkResult(t *testing.T) {
	checker := mock.New(testLogger())
	checker.Result = &domain.CheckResult{
		Label:   "Trademark (IP Australia)",
		Status:  domain.StatusTaken,
		Summary: "An identical registered trademark exists in Australia.",
		ExactMatches: []domain.TrademarkMatch{
			{ID: "1001", Words: "Sunrise Labs", Status: "Registered"},
		},
		SimilarMatches: []domain.TrademarkMatch{},
	}
	svc := check.NewService(checker, demo.New(), testLogger())

	results := svc.Check(context.Background(), "Sunrise Labs")

	assert.Equal(t, domain.StatusTaken, results.Trademark.Status)
	require.Len(t, results.Trademark.ExactMatches, 1)
	assert.Equal(t, "1001", results.Trademark.ExactMatches[0].ID)
}
