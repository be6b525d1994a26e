// Package demo provides the placeholder business-name, domain, and social
// checks. These are string heuristics kept for the MVP frontend; only the
// trademark check consults a real registry.
package demo

import (
	"strings"

	"github.com/nameready/nameready/internal/check"
	"github.com/nameready/nameready/internal/domain"
)

// Source implements check.PlaceholderSource with fixed demo heuristics.
type Source struct{}

// New creates the demo placeholder source.
func New() *Source {
	return &Source{}
}

// Placeholders derives demo results from the candidate name.
func (s *Source) Placeholders(name string) check.Placeholders {
	normalized := strings.ToLower(strings.TrimSpace(name))
	compact := strings.ReplaceAll(normalized, " ", "")

	isProbablyTaken := strings.Contains(normalized, "koala") || strings.Contains(normalized, "australia")
	hasSimilar := strings.Contains(normalized, "brew") || strings.Contains(normalized, "coffee")

	businessName := domain.CheckResult{
		Label:   "ASIC business name (AU)",
		Status:  domain.StatusAvailable,
		Details: "No exact match found (demo).",
	}
	if isProbablyTaken {
		businessName.Status = domain.StatusTaken
		businessName.Details = "A similar or identical business name appears to exist (demo)."
	}

	comDomain := domain.CheckResult{
		Label:   compact + ".com",
		Status:  domain.StatusAvailable,
		Details: "Appears free (demo).",
	}
	if isProbablyTaken {
		comDomain.Status = domain.StatusTaken
		comDomain.Details = "Likely registered already (demo)."
	}

	auDomain := domain.CheckResult{
		Label:   compact + ".com.au",
		Status:  domain.StatusAvailable,
		Details: "Appears free (demo).",
	}
	if hasSimilar {
		auDomain.Status = domain.StatusSimilar
		auDomain.Details = "Similar domains may exist (demo)."
	}

	instagram := domain.CheckResult{
		Label:   "@" + compact + " (Instagram)",
		Status:  domain.StatusAvailable,
		Details: "Appears free (demo).",
	}
	if isProbablyTaken {
		instagram.Status = domain.StatusTaken
		instagram.Details = "Handle looks popular (demo)."
	}

	tiktok := domain.CheckResult{
		Label:   "@" + compact + " (TikTok)",
		Status:  domain.StatusAvailable,
		Details: "Appears free (demo).",
	}

	return check.Placeholders{
		BusinessName: businessName,
		Domains:      []domain.CheckResult{comDomain, auDomain},
		Socials:      []domain.CheckResult{instagram, tiktok},
	}
}
