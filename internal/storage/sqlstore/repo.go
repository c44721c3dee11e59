package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"staff_reviews/internal/adapters/observability"
	"staff_reviews/internal/domain"
)

// Repo implements domain.ReviewStore and domain.EmployeeStore on database/sql.
type Repo struct {
	db      *sql.DB
	dialect Dialect
}

var (
	_ domain.ReviewStore   = (*Repo)(nil)
	_ domain.EmployeeStore = (*Repo)(nil)
)

func New(db *sql.DB, dialect Dialect) *Repo { return &Repo{db: db, dialect: dialect} }

func (r *Repo) DB() *sql.DB { return r.db }

func (r *Repo) Dialect() Dialect { return r.dialect }

func (r *Repo) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, args...)
	observability.ObserveStorage(op, err, time.Since(start))
	return res, err
}

func (r *Repo) CreateReviewsTable(ctx context.Context) error {
	_, err := r.exec(ctx, "create_reviews", r.dialect.ddl().createReviews)
	return err
}

func (r *Repo) DropReviewsTable(ctx context.Context) error {
	_, err := r.exec(ctx, "drop_reviews", dropReviewsSQL)
	return err
}

func (r *Repo) CreateEmployeesTable(ctx context.Context) error {
	_, err := r.exec(ctx, "create_employees", r.dialect.ddl().createEmployees)
	return err
}

func (r *Repo) DropEmployeesTable(ctx context.Context) error {
	_, err := r.exec(ctx, "drop_employees", dropEmployeesSQL)
	return err
}

func (r *Repo) InsertReview(ctx context.Context, year int, summary string, employeeID int64) (int64, error) {
	res, err := r.exec(ctx, "insert_review", insertReviewSQL, year, summary, employeeID)
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}

// UpdateReview writes all columns for id. Zero affected rows is not an error.
func (r *Repo) UpdateReview(ctx context.Context, id int64, year int, summary string, employeeID int64) error {
	_, err := r.exec(ctx, "update_review", updateReviewSQL, year, summary, employeeID, id)
	return translate(err)
}

func (r *Repo) DeleteReview(ctx context.Context, id int64) error {
	_, err := r.exec(ctx, "delete_review", deleteReviewSQL, id)
	return err
}

func (r *Repo) GetReviewRow(ctx context.Context, id int64) (*domain.ReviewRow, error) {
	start := time.Now()
	var row domain.ReviewRow
	err := r.db.QueryRowContext(ctx, getReviewSQL, id).
		Scan(&row.ID, &row.Year, &row.Summary, &row.EmployeeID)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveStorage("get_review", nil, time.Since(start))
		return nil, nil
	}
	observability.ObserveStorage("get_review", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repo) ListReviewRows(ctx context.Context) ([]domain.ReviewRow, error) {
	return r.queryReviews(ctx, "list_reviews", listReviewsSQL)
}

func (r *Repo) ListReviewRowsByEmployee(ctx context.Context, employeeID int64) ([]domain.ReviewRow, error) {
	return r.queryReviews(ctx, "list_reviews_by_employee", listReviewsByEmployeeSQL, employeeID)
}

func (r *Repo) queryReviews(ctx context.Context, op, query string, args ...any) (out []domain.ReviewRow, err error) {
	start := time.Now()
	defer func() { observability.ObserveStorage(op, err, time.Since(start)) }()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.ReviewRow
		if err := rows.Scan(&row.ID, &row.Year, &row.Summary, &row.EmployeeID); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) InsertEmployee(ctx context.Context, name, jobTitle string) (int64, error) {
	res, err := r.exec(ctx, "insert_employee", insertEmployeeSQL, name, jobTitle)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteEmployee fails with domain.ErrConflict while reviews still point at
// the employee and the engine enforces the foreign key.
func (r *Repo) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := r.exec(ctx, "delete_employee", deleteEmployeeSQL, id)
	return translate(err)
}

func (r *Repo) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	start := time.Now()
	var (
		e              domain.Employee
		name, jobTitle sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getEmployeeSQL, id).Scan(&e.ID, &name, &jobTitle)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveStorage("get_employee", nil, time.Since(start))
		return nil, nil
	}
	observability.ObserveStorage("get_employee", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	e.Name, e.JobTitle = name.String, jobTitle.String
	return &e, nil
}

func (r *Repo) ListEmployees(ctx context.Context) (out []domain.Employee, err error) {
	start := time.Now()
	defer func() { observability.ObserveStorage("list_employees", err, time.Since(start)) }()

	rows, err := r.db.QueryContext(ctx, listEmployeesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e              domain.Employee
			name, jobTitle sql.NullString
		)
		if err := rows.Scan(&e.ID, &name, &jobTitle); err != nil {
			return nil, err
		}
		e.Name, e.JobTitle = name.String, jobTitle.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
