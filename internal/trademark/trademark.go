package trademark

import (
	"context"

	"github.com/nameready/nameready/internal/domain"
)

// Checker runs a trademark-availability check for one candidate name.
//
// Implementations never return an error: every failure mode is folded into
// the returned CheckResult (status "unknown" for configuration or upstream
// failures), so callers always receive a well-formed result.
type Checker interface {
	Check(ctx context.Context, name string) domain.CheckResult
}
