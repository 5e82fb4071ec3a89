package valueobjects

import "fmt"

// BillingCycle represents how long a subscription period lasts.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// PeriodDays returns the length of one billing period in days.
func (c BillingCycle) PeriodDays() int {
	switch c {
	case BillingCycleYearly:
		return 365
	default:
		return 30
	}
}

func (c BillingCycle) IsValid() bool {
	return c == BillingCycleMonthly || c == BillingCycleYearly
}

func (c BillingCycle) String() string {
	return string(c)
}

// ParseBillingCycle validates and converts a raw string into a BillingCycle.
func ParseBillingCycle(s string) (BillingCycle, error) {
	cycle := BillingCycle(s)
	if !cycle.IsValid() {
		return "", fmt.Errorf("invalid billing cycle: %s", s)
	}
	return cycle, nil
}
