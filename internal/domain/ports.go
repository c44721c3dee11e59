package domain

import "context"

// EmployeeFinder resolves employee ids. A missing employee is (nil, nil).
type EmployeeFinder interface {
	FindByID(ctx context.Context, id int64) (*Employee, error)
}

type ReviewStore interface {
	// DDL
	CreateReviewsTable(ctx context.Context) error
	DropReviewsTable(ctx context.Context) error

	// Write paths
	InsertReview(ctx context.Context, year int, summary string, employeeID int64) (int64, error)
	UpdateReview(ctx context.Context, id int64, year int, summary string, employeeID int64) error
	DeleteReview(ctx context.Context, id int64) error

	// Read paths. GetReviewRow returns (nil, nil) when the row is absent.
	GetReviewRow(ctx context.Context, id int64) (*ReviewRow, error)
	ListReviewRows(ctx context.Context) ([]ReviewRow, error)
	ListReviewRowsByEmployee(ctx context.Context, employeeID int64) ([]ReviewRow, error)
}

type EmployeeStore interface {
	CreateEmployeesTable(ctx context.Context) error
	DropEmployeesTable(ctx context.Context) error

	InsertEmployee(ctx context.Context, name, jobTitle string) (int64, error)
	DeleteEmployee(ctx context.Context, id int64) error

	// GetEmployee returns (nil, nil) when the row is absent.
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
