package core

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	Daily   BudgetPeriod = "daily"
	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
)

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

// DefaultCategoryColor is applied when a category is created without a color.
const DefaultCategoryColor = "#000000"

const (
	maxDescriptionLen = 200
	minPasswordLen    = 6
)

type (
	TxType       string
	Role         string
	BudgetPeriod string
	GoalStatus   string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		Phone        string    `json:"phone,omitempty"`
		Role         Role      `json:"role"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	Category struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		Name      string    `json:"name"`
		Type      TxType    `json:"type"`
		Color     string    `json:"color"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Transaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		Type        TxType    `json:"type"`
		CategoryID  string    `json:"categoryId"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		Version     int64     `json:"version"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	Budget struct {
		ID         string       `json:"id"`
		UserID     string       `json:"userId"`
		CategoryID string       `json:"categoryId"`
		Amount     Money        `json:"amount"`
		Spent      Money        `json:"spent"`
		Remaining  Money        `json:"remaining"`
		Period     BudgetPeriod `json:"period"`
		StartDate  Date         `json:"startDate"`
		EndDate    Date         `json:"endDate"`
		CreatedAt  time.Time    `json:"createdAt"`
	}

	Goal struct {
		ID            string     `json:"id"`
		UserID        string     `json:"userId"`
		Title         string     `json:"title"`
		TargetAmount  Money      `json:"targetAmount"`
		CurrentAmount Money      `json:"currentAmount"`
		CategoryID    string     `json:"categoryId,omitempty"`
		Deadline      Date       `json:"deadline"`
		Status        GoalStatus `json:"status"`
		CreatedAt     time.Time  `json:"createdAt"`
	}
)

var (
	ErrNotFound         = errors.New("not found")
	ErrEmailTaken       = errors.New("email already exists")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrInvalidStatus    = errors.New("invalid goal status")
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidRange     = errors.New("start date must not be after end date")
	ErrWeakPassword     = errors.New("password too short")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyCategory    = errors.New("empty category")
	ErrDescriptionLong  = errors.New("description too long (max 200 characters)")
	ErrInvalidDateOrder = errors.New("end date must be after start date")
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping the wall clock of t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t.UTC()), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// IsEmpty returns true if the date is zero (for optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
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

// Validate rejects negative amounts.
func (m Money) Validate() error {
	if m.Cents < 0 || m.Cents > MaxCents {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) IsZero() bool { return m.Cents == 0 }

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (t TxType) Valid() bool { return t == Income || t == Expense }

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

func (p BudgetPeriod) Valid() bool { return p == Daily || p == Weekly || p == Monthly }

func (s GoalStatus) Valid() bool {
	return s == GoalActive || s == GoalCompleted || s == GoalCancelled
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < minPasswordLen {
		return ErrWeakPassword
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	if !colorPattern.MatchString(c.Color) {
		return ErrInvalidColor
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.Cents <= 0 || t.Amount.Cents > MaxCents {
		return ErrInvalidAmount
	}
	if utf8.RuneCountInString(t.Description) > maxDescriptionLen {
		return ErrDescriptionLong
	}
	return t.Date.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if b.Amount.Cents <= 0 || b.Amount.Cents > MaxCents {
		return ErrInvalidAmount
	}
	if err := b.Spent.Validate(); err != nil {
		return err
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if err := b.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if !b.EndDate.IsEmpty() && b.EndDate.Before(b.StartDate.Time) {
		return ErrInvalidDateOrder
	}
	return nil
}

// Recompute derives Remaining from Amount and Spent.
func (b *Budget) Recompute() {
	b.Remaining = b.Amount.Sub(b.Spent)
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if g.TargetAmount.Cents <= 0 || g.TargetAmount.Cents > MaxCents {
		return ErrInvalidAmount
	}
	if err := g.CurrentAmount.Validate(); err != nil {
		return err
	}
	if !g.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidationError reports whether err stems from rejected user input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrInvalidType, ErrInvalidRole, ErrInvalidPeriod,
		ErrInvalidStatus, ErrInvalidColor, ErrInvalidEmail, ErrInvalidDate,
		ErrInvalidRange, ErrWeakPassword, ErrEmptyName, ErrEmptyTitle,
		ErrEmptyCategory, ErrDescriptionLong, ErrInvalidDateOrder,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
