package subscription

import "errors"

// ErrQuotaExceeded is the defined outcome of a metered action attempted
// past the plan's daily allowance. It is an expected condition, not a
// system fault.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// ErrPlanNotFound indicates a referenced plan does not exist.
var ErrPlanNotFound = errors.New("plan not found")

// ErrFreePlanNotConfigured indicates the catalog has no free plan to fall
// back to for users without a paid subscription.
var ErrFreePlanNotConfigured = errors.New("free plan not configured")
