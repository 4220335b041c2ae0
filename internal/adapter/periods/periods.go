package periods

import (
	"context"
	"fmt"
	"time"

	"github.com/goodsteward/ledger/internal/domain"
)

// Guard implements usecase.PeriodGuard from static configuration: every
// date on or before the cutoff belongs to a closed fiscal period. A zero
// cutoff means no period is closed.
//
// Accounting close is managed outside this system, so the guard is a
// read-only view of the published cutoff rather than a period store.
type Guard struct {
	closedThrough time.Time
}

// NewGuard creates a Guard with the given cutoff.
func NewGuard(closedThrough time.Time) *Guard {
	return &Guard{closedThrough: closedThrough}
}

// ParseGuard creates a Guard from a YYYY-MM-DD cutoff string. Empty input
// yields a guard with nothing closed.
func ParseGuard(closedThrough string) (*Guard, error) {
	if closedThrough == "" {
		return &Guard{}, nil
	}

	cutoff, err := time.Parse("2006-01-02", closedThrough)
	if err != nil {
		return nil, fmt.Errorf("invalid period cutoff %q: %w", closedThrough, err)
	}

	return &Guard{closedThrough: cutoff}, nil
}

// IsDateInClosedPeriod reports whether date falls in a closed period.
func (g *Guard) IsDateInClosedPeriod(ctx context.Context, orgID string, date time.Time) (domain.PeriodCheck, error) {
	if g.closedThrough.IsZero() || date.After(g.closedThrough) {
		return domain.PeriodCheck{}, nil
	}

	return domain.PeriodCheck{
		Closed:     true,
		PeriodName: fmt.Sprintf("FY%d", date.Year()),
	}, nil
}
