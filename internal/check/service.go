// Package check aggregates the individual availability checks into the
// single payload the frontend consumes.
package check

import (
	"context"
	"log/slog"

	"github.com/nameready/nameready/internal/domain"
	"github.com/nameready/nameready/internal/trademark"
)

// Placeholders are the demo-data checks that accompany the real trademark
// check: one business-name result plus ordered domain and social results.
type Placeholders struct {
	BusinessName domain.CheckResult
	Domains      []domain.CheckResult
	Socials      []domain.CheckResult
}

// PlaceholderSource produces placeholder results for a candidate name. It is
// a heuristic collaborator; its results carry no registry-backed guarantees.
type PlaceholderSource interface {
	Placeholders(name string) Placeholders
}

// Service composes the trademark checker with the placeholder source.
type Service struct {
	trademarks   trademark.Checker
	placeholders PlaceholderSource
	logger       *slog.Logger
}

// NewService creates a new aggregation service.
func NewService(trademarks trademark.Checker, placeholders PlaceholderSource, logger *slog.Logger) *Service {
	return &Service{
		trademarks:   trademarks,
		placeholders: placeholders,
		logger:       logger,
	}
}

// Check runs all checks for one candidate name. The trademark checker's
// contract is to never fail, so aggregation itself has no error path.
func (s *Service) Check(ctx context.Context, name string) domain.AggregatedResults {
	tm := s.trademarks.Check(ctx, name)
	ph := s.placeholders.Placeholders(name)

	s.logger.Info("check completed",
		"name", domain.NormalizeName(name),
		"trademark_status", tm.Status,
		"exact_matches", len(tm.ExactMatches),
		"similar_matches", len(tm.SimilarMatches),
	)

	return domain.AggregatedResults{
		BusinessName: ph.BusinessName,
		Trademark:    tm,
		Domains:      ph.Domains,
		Socials:      ph.Socials,
	}
}
