package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Monthly BillingCycle = "monthly"
	Yearly  BillingCycle = "yearly"
)

const (
	Entertainment Category = "Entertainment"
	Productivity  Category = "Productivity"
	Health        Category = "Health"
	Shopping      Category = "Shopping"
	Other         Category = "Other"
)

const (
	UsageNever      UsageFrequency = "never"
	UsageRarely     UsageFrequency = "rarely"
	UsageMonthly    UsageFrequency = "monthly"
	UsageFrequently UsageFrequency = "frequently"
	UsageUnset      UsageFrequency = ""
)

// MaxMonthlyBudget is the upper bound accepted for a budget setting.
const MaxMonthlyBudget = 1_000_000

type (
	BillingCycle   string
	Category       string
	UsageFrequency string

	Date struct {
		time.Time
	}

	// Subscription is a single recurring subscription owned by a user.
	Subscription struct {
		ID              string         `json:"id"`
		UserID          string         `json:"user_id"`
		Name            string         `json:"name"`
		Cost            float64        `json:"cost"`
		BillingCycle    BillingCycle   `json:"billing_cycle"`
		NextRenewalDate Date           `json:"next_renewal_date"`
		Category        Category       `json:"category"`
		UsageFrequency  UsageFrequency `json:"usage_frequency,omitempty"`
		LastUsedDate    *Date          `json:"last_used_date,omitempty"`
	}

	// SubscriptionPatch carries the fields of a partial update. Nil fields
	// are left untouched.
	SubscriptionPatch struct {
		Name            *string         `json:"name,omitempty"`
		Cost            *float64        `json:"cost,omitempty"`
		BillingCycle    *BillingCycle   `json:"billing_cycle,omitempty"`
		NextRenewalDate *Date           `json:"next_renewal_date,omitempty"`
		Category        *Category       `json:"category,omitempty"`
		UsageFrequency  *UsageFrequency `json:"usage_frequency,omitempty"`
		LastUsedDate    *Date           `json:"last_used_date,omitempty"`
	}

	// BudgetSetting is the per-user monthly budget. At most one per user.
	BudgetSetting struct {
		UserID        string  `json:"user_id"`
		MonthlyBudget float64 `json:"monthly_budget"`
	}

	// SavingsEntry records the monthly amount freed by cancelling a
	// subscription. SubscriptionName is a snapshot, not a foreign key: the
	// subscription is gone by the time the entry exists.
	SavingsEntry struct {
		ID               string    `json:"id"`
		UserID           string    `json:"user_id"`
		SubscriptionName string    `json:"subscription_name"`
		MonthlySavings   float64   `json:"monthly_savings"`
		SavedAt          time.Time `json:"saved_at"`
	}
)

var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrNameTooLong     = errors.New("name too long (max 100 characters)")
	ErrInvalidCost     = errors.New("cost must be positive")
	ErrInvalidCycle    = errors.New("invalid billing cycle")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidUsage    = errors.New("invalid usage frequency")
	ErrInvalidDate     = errors.New("invalid renewal date")
	ErrInvalidBudget   = errors.New("budget must be between 0 and 1,000,000")
	ErrNotFound        = errors.New("not found")
	ErrNoSession       = errors.New("no active session")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to calendar-day granularity.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c BillingCycle) Validate() error {
	switch c {
	case Monthly, Yearly:
		return nil
	default:
		return ErrInvalidCycle
	}
}

func (c Category) Validate() error {
	switch c {
	case Entertainment, Productivity, Health, Shopping, Other:
		return nil
	default:
		return ErrInvalidCategory
	}
}

func (u UsageFrequency) Validate() error {
	switch u {
	case UsageNever, UsageRarely, UsageMonthly, UsageFrequently, UsageUnset:
		return nil
	default:
		return ErrInvalidUsage
	}
}

// Validate checks the subscription against the input rules. The first
// violated rule wins, matching what the user is shown.
func (s Subscription) Validate() error {
	if len(strings.TrimSpace(s.Name)) == 0 {
		return ErrEmptyName
	}
	// The 100 limit is characters, not bytes; multibyte names count by rune.
	if utf8.RuneCountInString(s.Name) > 100 {
		return ErrNameTooLong
	}
	if s.Cost <= 0 {
		return ErrInvalidCost
	}
	if err := s.BillingCycle.Validate(); err != nil {
		return err
	}
	if err := s.NextRenewalDate.Validate(); err != nil {
		return err
	}
	if err := s.Category.Validate(); err != nil {
		return err
	}
	if err := s.UsageFrequency.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks a patch the same way a full record is checked, but only
// for the fields it carries.
func (p SubscriptionPatch) Validate() error {
	if p.Name != nil {
		if len(strings.TrimSpace(*p.Name)) == 0 {
			return ErrEmptyName
		}
		if utf8.RuneCountInString(*p.Name) > 100 {
			return ErrNameTooLong
		}
	}
	if p.Cost != nil && *p.Cost <= 0 {
		return ErrInvalidCost
	}
	if p.BillingCycle != nil {
		if err := p.BillingCycle.Validate(); err != nil {
			return err
		}
	}
	if p.NextRenewalDate != nil {
		if err := p.NextRenewalDate.Validate(); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := p.Category.Validate(); err != nil {
			return err
		}
	}
	if p.UsageFrequency != nil {
		if err := p.UsageFrequency.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns a copy of sub with the patch's non-nil fields applied.
func (p SubscriptionPatch) Apply(sub Subscription) Subscription {
	if p.Name != nil {
		sub.Name = *p.Name
	}
	if p.Cost != nil {
		sub.Cost = *p.Cost
	}
	if p.BillingCycle != nil {
		sub.BillingCycle = *p.BillingCycle
	}
	if p.NextRenewalDate != nil {
		sub.NextRenewalDate = *p.NextRenewalDate
	}
	if p.Category != nil {
		sub.Category = *p.Category
	}
	if p.UsageFrequency != nil {
		sub.UsageFrequency = *p.UsageFrequency
	}
	if p.LastUsedDate != nil {
		sub.LastUsedDate = p.LastUsedDate
	}
	return sub
}

func ValidateBudget(amount float64) error {
	if amount <= 0 || amount > MaxMonthlyBudget {
		return ErrInvalidBudget
	}
	return nil
}

// IsValidationError reports whether err is one of the input-rule sentinels.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrEmptyName, ErrNameTooLong, ErrInvalidCost, ErrInvalidCycle,
		ErrInvalidCategory, ErrInvalidUsage, ErrInvalidDate, ErrInvalidBudget,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
