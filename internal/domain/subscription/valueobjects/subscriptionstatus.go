package valueobjects

// SubscriptionStatus represents the lifecycle state of a subscription.
// A subscription is never physically deleted: cancellation and expiry
// only transition the status.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusExpired   SubscriptionStatus = "expired"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:    true,
	StatusCancelled: true,
	StatusExpired:   true,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsActive() bool {
	return s == StatusActive
}
