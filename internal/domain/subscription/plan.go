package subscription

import (
	"fmt"
	"time"

	"github.com/florascan-inc/florascan/internal/shared/id"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// Plan represents a subscription plan in the catalog. Prices are stored in
// cents. A nil daily allowance means the plan imposes no daily scan limit.
// Plans are soft-deactivated, never deleted, because subscriptions keep
// referencing them.
type Plan struct {
	id                    uint
	sid                   string
	name                  string
	slug                  string
	description           string
	monthlyPrice          uint64
	yearlyPrice           uint64
	yearlyDiscountPercent uint
	dailyAllowance        *uint
	isFree                bool
	status                PlanStatus
	features              []string
	version               int
	createdAt             time.Time
	updatedAt             time.Time
}

func NewPlan(name, slug, description string, monthlyPrice uint64,
	yearlyDiscountPercent uint, dailyAllowance *uint, isFree bool) (*Plan, error) {

	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("plan slug is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("plan name too long (max 100 characters)")
	}
	if len(slug) > 100 {
		return nil, fmt.Errorf("plan slug too long (max 100 characters)")
	}
	if yearlyDiscountPercent > 100 {
		return nil, fmt.Errorf("yearly discount percent must be between 0 and 100")
	}
	if isFree && monthlyPrice != 0 {
		return nil, fmt.Errorf("free plan cannot have a price")
	}

	now := time.Now().UTC()
	p := &Plan{
		sid:                   id.MustGenerateWithPrefix(id.PrefixPlan, id.DefaultLength),
		name:                  name,
		slug:                  slug,
		description:           description,
		monthlyPrice:          monthlyPrice,
		yearlyDiscountPercent: yearlyDiscountPercent,
		dailyAllowance:        dailyAllowance,
		isFree:                isFree,
		status:                PlanStatusActive,
		features:              []string{},
		version:               1,
		createdAt:             now,
		updatedAt:             now,
	}
	p.yearlyPrice = p.DeriveYearlyPrice()

	return p, nil
}

// PlanReconstructParams carries the persisted state of a plan.
type PlanReconstructParams struct {
	ID                    uint
	SID                   string
	Name                  string
	Slug                  string
	Description           string
	MonthlyPrice          uint64
	YearlyPrice           uint64
	YearlyDiscountPercent uint
	DailyAllowance        *uint
	IsFree                bool
	Status                string
	Features              []string
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ReconstructPlan reconstructs a plan from persistence.
func ReconstructPlan(params PlanReconstructParams) (*Plan, error) {
	if params.ID == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}

	planStatus := PlanStatus(params.Status)
	if planStatus != PlanStatusActive && planStatus != PlanStatusInactive {
		return nil, fmt.Errorf("invalid plan status: %s", params.Status)
	}

	features := params.Features
	if features == nil {
		features = []string{}
	}

	return &Plan{
		id:                    params.ID,
		sid:                   params.SID,
		name:                  params.Name,
		slug:                  params.Slug,
		description:           params.Description,
		monthlyPrice:          params.MonthlyPrice,
		yearlyPrice:           params.YearlyPrice,
		yearlyDiscountPercent: params.YearlyDiscountPercent,
		dailyAllowance:        params.DailyAllowance,
		isFree:                params.IsFree,
		status:                planStatus,
		features:              features,
		version:               params.Version,
		createdAt:             params.CreatedAt,
		updatedAt:             params.UpdatedAt,
	}, nil
}

func (p *Plan) ID() uint {
	return p.id
}

func (p *Plan) SetID(planID uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if planID == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = planID
	return nil
}

func (p *Plan) SID() string {
	return p.sid
}

func (p *Plan) Name() string {
	return p.name
}

func (p *Plan) Slug() string {
	return p.slug
}

func (p *Plan) Description() string {
	return p.description
}

func (p *Plan) MonthlyPrice() uint64 {
	return p.monthlyPrice
}

func (p *Plan) YearlyPrice() uint64 {
	return p.yearlyPrice
}

func (p *Plan) YearlyDiscountPercent() uint {
	return p.yearlyDiscountPercent
}

// DailyAllowance returns the plan's daily scan allowance.
// nil means unlimited.
func (p *Plan) DailyAllowance() *uint {
	return p.dailyAllowance
}

func (p *Plan) IsUnlimited() bool {
	return p.dailyAllowance == nil
}

func (p *Plan) IsFree() bool {
	return p.isFree
}

func (p *Plan) Status() PlanStatus {
	return p.status
}

func (p *Plan) IsActive() bool {
	return p.status == PlanStatusActive
}

func (p *Plan) Features() []string {
	return p.features
}

func (p *Plan) Version() int {
	return p.version
}

func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Plan) UpdatedAt() time.Time {
	return p.updatedAt
}

// DeriveYearlyPrice computes the yearly price from the monthly price and
// the yearly discount percentage.
func (p *Plan) DeriveYearlyPrice() uint64 {
	annual := p.monthlyPrice * 12
	return annual * uint64(100-p.yearlyDiscountPercent) / 100
}

// OverrideYearlyPrice replaces the derived yearly price with an explicit one.
func (p *Plan) OverrideYearlyPrice(price uint64) {
	p.yearlyPrice = price
	p.touch()
}

// UpdateDetails updates the editable plan attributes. The yearly price is
// re-derived unless overridden afterwards.
func (p *Plan) UpdateDetails(name, description string, monthlyPrice uint64, yearlyDiscountPercent uint, dailyAllowance *uint) error {
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	if yearlyDiscountPercent > 100 {
		return fmt.Errorf("yearly discount percent must be between 0 and 100")
	}
	if p.isFree && monthlyPrice != 0 {
		return fmt.Errorf("free plan cannot have a price")
	}

	p.name = name
	p.description = description
	p.monthlyPrice = monthlyPrice
	p.yearlyDiscountPercent = yearlyDiscountPercent
	p.dailyAllowance = dailyAllowance
	p.yearlyPrice = p.DeriveYearlyPrice()
	p.touch()
	return nil
}

// SetFeatures replaces the plan's feature list.
func (p *Plan) SetFeatures(features []string) {
	if features == nil {
		features = []string{}
	}
	p.features = features
	p.touch()
}

// Deactivate soft-deactivates the plan so it no longer participates in new
// subscriptions. Existing subscriptions keep their reference.
func (p *Plan) Deactivate() {
	if p.status == PlanStatusInactive {
		return
	}
	p.status = PlanStatusInactive
	p.touch()
}

// Activate re-activates a deactivated plan.
func (p *Plan) Activate() {
	if p.status == PlanStatusActive {
		return
	}
	p.status = PlanStatusActive
	p.touch()
}

func (p *Plan) touch() {
	p.version++
	p.updatedAt = time.Now().UTC()
}
