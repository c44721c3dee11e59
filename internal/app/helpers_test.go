package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"staff_reviews/internal/app"
	"staff_reviews/internal/domain"
	"staff_reviews/internal/storage/sqlstore"
)

// fixture wires the app services over a private in-memory SQLite database.
type fixture struct {
	store     *sqlstore.Repo
	employees *app.EmployeeDirectory
	reviews   *app.ReviewRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := sqlstore.Open(ctx, "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := sqlstore.New(db, dialect)
	employees := app.NewEmployeeDirectory(store, nil, time.Minute)
	reviews := app.NewReviewRepository(store, employees, app.NewIdentityMap())
	t.Cleanup(reviews.Close)

	require.NoError(t, employees.CreateTable(ctx))
	require.NoError(t, reviews.CreateTable(ctx))
	return &fixture{store: store, employees: employees, reviews: reviews}
}

func (f *fixture) employee(t *testing.T, name string) int64 {
	t.Helper()
	e, err := f.employees.Create(context.Background(), name, "Engineer")
	require.NoError(t, err)
	return e.ID
}

// stubFinder resolves a fixed set of ids.
type stubFinder map[int64]bool

func (s stubFinder) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if !s[id] {
		return nil, nil
	}
	return &domain.Employee{ID: id, Name: "stub", JobTitle: "stub"}, nil
}
