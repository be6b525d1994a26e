package ipaustralia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nameready/nameready/internal/domain"
	"github.com/nameready/nameready/internal/metrics"
	"github.com/nameready/nameready/internal/trademark"
)

const (
	// CheckLabel is the user-facing name of this check.
	CheckLabel = "Trademark (IP Australia)"

	// maxDetailFetches bounds how many quick-search hits get a detail fetch.
	maxDetailFetches = 5

	quickSearchPath = "/search/quick"
	detailPath      = "/trade-mark/"

	defaultRequestTimeout = 30 * time.Second
)

// Config contains configuration for the IP Australia checker.
type Config struct {
	// BaseURL of the trademark search API. When empty, checks degrade to a
	// status-"unknown" result instead of failing at startup.
	BaseURL string

	Token TokenConfig

	RequestTimeout time.Duration
}

// Checker implements the trademark.Checker interface against the
// IP Australia trademark search API.
type Checker struct {
	cfg    Config
	client *http.Client
	tokens *TokenSource
	logger *slog.Logger
}

var _ trademark.Checker = (*Checker)(nil)

// New creates an IP Australia trademark checker.
func New(cfg Config, logger *slog.Logger) *Checker {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	client := &http.Client{Timeout: cfg.RequestTimeout}
	return &Checker{
		cfg:    cfg,
		client: client,
		tokens: NewTokenSource(cfg.Token, client, logger),
		logger: logger,
	}
}

// Check runs the end-to-end availability check for one candidate name. It
// never returns an error: configuration and network failures surface as a
// status-"unknown" result with the failure description in Details.
func (c *Checker) Check(ctx context.Context, name string) domain.CheckResult {
	q := domain.NormalizeName(name)

	if c.cfg.BaseURL == "" {
		return c.record(unknownResult(
			"We couldn't run the trademark check right now.",
			"Trademark results help you avoid picking a name that could conflict with an existing brand.",
			"Missing IPAU_TM_BASE_URL_TEST/PROD in environment",
		))
	}

	result, err := c.check(ctx, q)
	if err != nil {
		c.logger.Error("trademark check failed", "query", q, "error", err)
		return c.record(unknownResult(
			"We couldn't run the trademark check right now.",
			"Trademark results help you avoid choosing a name that could conflict with an existing brand.",
			fmt.Sprintf("Request failed: %v", err),
		))
	}
	return c.record(result)
}

// record counts the outcome before handing the result back.
func (c *Checker) record(result domain.CheckResult) domain.CheckResult {
	metrics.ChecksTotal.WithLabelValues("trademark", string(result.Status)).Inc()
	return result
}

func (c *Checker) check(ctx context.Context, q string) (domain.CheckResult, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return domain.CheckResult{}, err
	}

	status, body, err := c.quickSearch(ctx, token, q)
	if err != nil {
		return domain.CheckResult{}, err
	}
	if status < 200 || status >= 300 {
		return unknownResult(
			"We couldn't complete the trademark check right now.",
			"Trademark results help you avoid choosing a name that could conflict with an existing brand.",
			fmt.Sprintf("IP Australia error %d: %s", status, excerpt(body, 250)),
		), nil
	}

	count, ids, err := parseQuickSearch(body)
	if err != nil {
		return domain.CheckResult{}, err
	}

	if count == 0 || len(ids) == 0 {
		return domain.CheckResult{
			Label:          CheckLabel,
			Status:         domain.StatusAvailable,
			Summary:        "No registered word trademarks were found in Australia.",
			WhyThisMatters: "This lowers risk, but it's not a guarantee. Similar marks, pending applications, or other rights may still exist.",
			Details:        "0 registered results returned by IP Australia quick search.",
			ExactMatches:   []domain.TrademarkMatch{},
			SimilarMatches: []domain.TrademarkMatch{},
		}, nil
	}

	top := ids
	if len(top) > maxDetailFetches {
		top = top[:maxDetailFetches]
	}

	details := c.fetchDetails(ctx, token, top)

	exact, similar := c.partition(q, details)

	// If no detail record yielded usable words, report the bare IDs rather
	// than silently downgrading a non-zero hit count to "available".
	if len(exact) == 0 && len(similar) == 0 {
		placeholders := make([]domain.TrademarkMatch, len(top))
		for i, id := range top {
			placeholders[i] = domain.TrademarkMatch{
				ID:          id,
				Classes:     []string{},
				ClassLabels: []string{},
			}
		}
		return domain.CheckResult{
			Label:          CheckLabel,
			Status:         domain.StatusSimilar,
			Summary:        "Registered trademarks exist with this name or something similar.",
			WhyThisMatters: "Even if names aren't identical, similar marks in related categories can increase legal and branding risk.",
			Details:        fmt.Sprintf("Found %d registered match(es). IDs: %s", count, strings.Join(top, ", ")),
			ExactMatches:   []domain.TrademarkMatch{},
			SimilarMatches: placeholders,
		}, nil
	}

	isTaken := len(exact) > 0

	result := domain.CheckResult{
		Label:          CheckLabel,
		Details:        fmt.Sprintf("Found %d registered match(es). Showing the top %d.", count, len(top)),
		ExactMatches:   exact,
		SimilarMatches: similar,
	}
	if isTaken {
		result.Status = domain.StatusTaken
		result.Summary = "An identical registered trademark exists in Australia."
		result.WhyThisMatters = "Using the same name can create a high risk of trademark conflict, especially in related industries."
	} else {
		result.Status = domain.StatusSimilar
		result.Summary = "Similar registered trademarks exist in Australia."
		result.WhyThisMatters = "Even if names aren't identical, similar marks in related categories can still cause legal and branding risk."
	}
	return result, nil
}

// quickSearchRequest matches the registry's ApiQuickSearchRequest schema.
type quickSearchRequest struct {
	Query   string        `json:"query"`
	Sort    searchSort    `json:"sort"`
	Filters searchFilters `json:"filters"`
}

type searchSort struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type searchFilters struct {
	QuickSearchType []string `json:"quickSearchType"`
	Status          []string `json:"status"`
}

// quickSearch POSTs the search request and returns the raw response so the
// caller can treat non-2xx statuses as degraded results rather than errors.
func (c *Checker) quickSearch(ctx context.Context, token, q string) (int, []byte, error) {
	const op = "ipaustralia.quicksearch"

	payload := quickSearchRequest{
		Query: q,
		Sort:  searchSort{Field: "NUMBER", Direction: "ASCENDING"},
		Filters: searchFilters{
			QuickSearchType: []string{"WORD"},
			Status:          []string{"REGISTERED"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, domain.Wrap(err, domain.EINTERNAL, op, "marshal search request")
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + quickSearchPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, domain.Wrap(err, domain.EINTERNAL, op, "build search request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RegistryRequestsTotal.WithLabelValues("quick_search", "error").Inc()
		return 0, nil, domain.Wrap(err, domain.EUPSTREAM, op, "quick search request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, domain.Wrap(err, domain.EUPSTREAM, op, "read search response")
	}

	metrics.RegistryRequestsTotal.WithLabelValues("quick_search", strconv.Itoa(resp.StatusCode)).Inc()
	return resp.StatusCode, raw, nil
}

// parseQuickSearch pulls count and trademarkIds out of the response,
// tolerating absent or oddly-shaped fields.
func parseQuickSearch(body []byte) (int, []string, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, nil, domain.Upstream("ipaustralia.quicksearch", "search response was not valid JSON: %s", excerpt(body, 250))
	}

	count := 0
	if n, ok := data["count"].(float64); ok {
		count = int(n)
	}

	var ids []string
	if list, ok := data["trademarkIds"].([]interface{}); ok {
		for _, v := range list {
			if id := strings.TrimSpace(stringify(v)); id != "" {
				ids = append(ids, id)
			}
		}
	}

	return count, ids, nil
}

// detailResult carries either a decoded record or the per-ID error for one
// detail fetch. Errors here never abort the sibling fetches.
type detailResult struct {
	id   string
	data map[string]interface{}
	err  error
}

// fetchDetails fetches the detail record for each ID concurrently. Results
// are collected positionally so the original quick-search order is preserved
// regardless of completion order.
func (c *Checker) fetchDetails(ctx context.Context, token string, ids []string) []detailResult {
	results := make([]detailResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = c.fetchDetail(gctx, token, id)
			return nil
		})
	}
	// Fetch errors are captured per item; Wait only synchronizes.
	_ = g.Wait()

	return results
}

func (c *Checker) fetchDetail(ctx context.Context, token, id string) detailResult {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + detailPath + id

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return detailResult{id: id, err: fmt.Errorf("build detail request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RegistryRequestsTotal.WithLabelValues("detail", "error").Inc()
		return detailResult{id: id, err: fmt.Errorf("detail fetch failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return detailResult{id: id, err: fmt.Errorf("read detail response: %w", err)}
	}

	metrics.RegistryRequestsTotal.WithLabelValues("detail", strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return detailResult{id: id, err: fmt.Errorf("detail fetch failed %d: %s", resp.StatusCode, excerpt(raw, 120))}
	}

	var record map[string]interface{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return detailResult{id: id, err: fmt.Errorf("detail fetch returned non-JSON: %s", excerpt(raw, 120))}
	}

	return detailResult{id: id, data: record}
}

// partition normalizes each fetched record into a TrademarkMatch and splits
// the matches into exact (case-insensitive equality with the query) and
// similar. Matches without extractable words fall into neither bucket.
func (c *Checker) partition(q string, details []detailResult) (exact, similar []domain.TrademarkMatch) {
	qLower := strings.ToLower(q)

	for _, d := range details {
		if d.err != nil {
			// Found but undescribable; without words the record cannot be
			// classified either way.
			c.logger.Warn("trademark detail unavailable", "id", d.id, "error", d.err)
			continue
		}

		match := domain.TrademarkMatch{ID: d.id}
		match.Words = firstNonEmpty(d.data, wordKeys)
		match.Status = firstNonEmpty(d.data, statusKeys)
		match.Classes = extractNiceClasses(d.data)
		match.ClassLabels = make([]string, len(match.Classes))
		for i, code := range match.Classes {
			match.ClassLabels[i] = trademark.LabelNiceClass(code)
		}

		switch {
		case match.Words == "":
			// Unrecognized record shape; excluded from both partitions.
		case strings.ToLower(match.Words) == qLower:
			exact = append(exact, match)
		default:
			similar = append(similar, match)
		}
	}

	return exact, similar
}

func unknownResult(summary, why, details string) domain.CheckResult {
	return domain.CheckResult{
		Label:          CheckLabel,
		Status:         domain.StatusUnknown,
		Summary:        summary,
		WhyThisMatters: why,
		Details:        details,
		ExactMatches:   []domain.TrademarkMatch{},
		SimilarMatches: []domain.TrademarkMatch{},
	}
}
