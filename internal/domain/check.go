package domain

import "strings"

// AvailabilityStatus is the closed set of outcomes for a single check.
type AvailabilityStatus string

const (
	// StatusAvailable means no conflicting records were found.
	StatusAvailable AvailabilityStatus = "available"

	// StatusTaken means an exact match was found.
	StatusTaken AvailabilityStatus = "taken"

	// StatusSimilar means related-but-not-identical records were found.
	StatusSimilar AvailabilityStatus = "similar"

	// StatusUnknown means the check could not be completed. The frontend
	// treats this as "could not determine" and must never conflate it with
	// "available".
	StatusUnknown AvailabilityStatus = "unknown"
)

// TrademarkMatch is one candidate registry record surfaced to the user.
// Constructed once per detail-fetch result and immutable thereafter.
type TrademarkMatch struct {
	// ID is the opaque registry identifier, never empty.
	ID string `json:"id"`

	// Words is the mark's textual content; empty when extraction failed or
	// the record shape was not recognized.
	Words string `json:"words"`

	// Status is the registry status string; may be empty.
	Status string `json:"status"`

	// Classes holds deduplicated classification codes, numeric-ascending
	// with non-numeric codes last.
	Classes []string `json:"classes"`

	// ClassLabels parallels Classes, each code rendered with its Nice
	// description when known.
	ClassLabels []string `json:"classLabels"`
}

// CheckResult is the outcome of one availability check (trademark, business
// name, domain, or social handle).
type CheckResult struct {
	Label          string             `json:"label"`
	Status         AvailabilityStatus `json:"status"`
	Summary        string             `json:"summary,omitempty"`
	WhyThisMatters string             `json:"whyThisMatters,omitempty"`
	Details        string             `json:"details,omitempty"`
	// Set (possibly empty, never nil) by the trademark checker; placeholder
	// checks leave them nil, serialized as null.
	ExactMatches   []TrademarkMatch `json:"exactMatches"`
	SimilarMatches []TrademarkMatch `json:"similarMatches"`
}

// AggregatedResults combines all checks for one query. Built per request,
// serialized, and discarded; nothing is persisted.
type AggregatedResults struct {
	BusinessName CheckResult   `json:"businessName"`
	Trademark    CheckResult   `json:"trademark"`
	Domains      []CheckResult `json:"domains"`
	Socials      []CheckResult `json:"socials"`
}

// NormalizeName collapses internal whitespace runs to single spaces and
// trims leading/trailing whitespace. Idempotent.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
