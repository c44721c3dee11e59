package domain

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MinReviewYear is the earliest year a review may carry.
const MinReviewYear = 2000

// Review is one row of the reviews table. Fields are only reachable through
// validating setters, so a live Review always holds a valid year, a non-empty
// summary and an employee id that resolved when it was last set.
type Review struct {
	id         int64
	hasID      bool
	year       int
	summary    string
	employeeID int64

	employees EmployeeFinder
}

// ReviewRow is a reviews row as scanned from storage.
type ReviewRow struct {
	ID         int64
	Year       sql.NullInt64
	Summary    sql.NullString
	EmployeeID sql.NullInt64
}

// ReviewValues carries loosely typed attributes (decoded payloads, rows).
// A nil field is "not provided" when patching and a type error when creating.
type ReviewValues struct {
	Year       any
	Summary    any
	EmployeeID any
}

// ReviewView is the read-only JSON shape of a Review.
type ReviewView struct {
	ID         *int64 `json:"id"`
	Year       int    `json:"year"`
	Summary    string `json:"summary"`
	EmployeeID int64  `json:"employee_id"`
}

// NewReview builds an unsaved Review, running the setters in order
// year, summary, employee id.
func NewReview(ctx context.Context, employees EmployeeFinder, year int, summary string, employeeID int64) (*Review, error) {
	r := &Review{employees: employees}
	if err := r.SetYear(year); err != nil {
		return nil, err
	}
	if err := r.SetSummary(summary); err != nil {
		return nil, err
	}
	if err := r.SetEmployeeID(ctx, employeeID); err != nil {
		return nil, err
	}
	return r, nil
}

// NewReviewFromValues is NewReview for untyped input.
func NewReviewFromValues(ctx context.Context, employees EmployeeFinder, v ReviewValues) (*Review, error) {
	r := &Review{employees: employees}
	if err := r.assign(ctx, v, false); err != nil {
		return nil, err
	}
	return r, nil
}

// RestoreReview builds a Review for an existing row. The id is trusted and
// stored as given; the other fields are validated as usual.
func RestoreReview(ctx context.Context, employees EmployeeFinder, id int64, v ReviewValues) (*Review, error) {
	r := &Review{id: id, hasID: true, employees: employees}
	if err := r.assign(ctx, v, false); err != nil {
		return nil, err
	}
	return r, nil
}

// Apply assigns every provided (non-nil) field through its setter, stopping
// at the first failure. Fields set before the failure keep their new value.
func (r *Review) Apply(ctx context.Context, v ReviewValues) error {
	return r.assign(ctx, v, true)
}

func (r *Review) assign(ctx context.Context, v ReviewValues, skipNil bool) error {
	if !skipNil || v.Year != nil {
		year, err := YearFrom(v.Year)
		if err != nil {
			return err
		}
		if err := r.SetYear(year); err != nil {
			return err
		}
	}
	if !skipNil || v.Summary != nil {
		summary, err := SummaryFrom(v.Summary)
		if err != nil {
			return err
		}
		if err := r.SetSummary(summary); err != nil {
			return err
		}
	}
	if !skipNil || v.EmployeeID != nil {
		employeeID, err := EmployeeIDFrom(v.EmployeeID)
		if err != nil {
			return err
		}
		if err := r.SetEmployeeID(ctx, employeeID); err != nil {
			return err
		}
	}
	return nil
}

// ID returns the primary key and whether the review is persisted.
func (r *Review) ID() (int64, bool) { return r.id, r.hasID }

func (r *Review) Persisted() bool { return r.hasID }

func (r *Review) Year() int { return r.year }

func (r *Review) Summary() string { return r.summary }

func (r *Review) EmployeeID() int64 { return r.employeeID }

// AssignID records the generated key after an insert.
func (r *Review) AssignID(id int64) {
	r.id = id
	r.hasID = true
}

// ClearID turns the review back into an unsaved instance.
func (r *Review) ClearID() {
	r.id = 0
	r.hasID = false
}

func (r *Review) SetYear(year int) error {
	err := validation.Validate(year,
		validation.Required.Error(msgYearRange),
		validation.Min(MinReviewYear).Error(msgYearRange),
	)
	if err != nil {
		return invalid(ErrInvalidYear, msgYearRange)
	}
	// stored in a 32-bit INT column
	if err := validation.Validate(year, validation.Max(math.MaxInt32)); err != nil {
		return invalid(ErrInvalidYear, msgYearType)
	}
	r.year = year
	return nil
}

func (r *Review) SetSummary(summary string) error {
	if err := validation.Validate(summary, validation.Required.Error(msgSummary)); err != nil {
		return invalid(ErrInvalidSummary, msgSummary)
	}
	r.summary = summary
	return nil
}

// SetEmployeeID resolves id through the employee collaborator. Lookup
// failures other than "no such employee" are returned wrapped.
func (r *Review) SetEmployeeID(ctx context.Context, id int64) error {
	if r.employees == nil {
		return invalid(ErrInvalidEmployee, msgEmployeeRef)
	}
	e, err := r.employees.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("resolve employee %d: %w", id, err)
	}
	if e == nil {
		return invalid(ErrInvalidEmployee, msgEmployeeRef)
	}
	r.employeeID = id
	return nil
}

func (r *Review) View() ReviewView {
	v := ReviewView{Year: r.year, Summary: r.summary, EmployeeID: r.employeeID}
	if r.hasID {
		id := r.id
		v.ID = &id
	}
	return v
}

func (r *Review) String() string {
	id := "None"
	if r.hasID {
		id = strconv.FormatInt(r.id, 10)
	}
	return fmt.Sprintf("<Review %s: %d, %s, Employee: %d>", id, r.year, r.summary, r.employeeID)
}

// Values returns the row's columns in setter order.
func (row ReviewRow) Values() ReviewValues {
	return ReviewValues{Year: row.Year, Summary: row.Summary, EmployeeID: row.EmployeeID}
}
