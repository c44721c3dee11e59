package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff_reviews/internal/app"
	"staff_reviews/internal/domain"
)

func TestCreateThenFindByID_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	created, err := f.reviews.Create(ctx, 2021, "Good work", emp)
	require.NoError(t, err)
	id, ok := created.ID()
	require.True(t, ok)

	// drop the cached instance so the lookup really hits storage
	f.reviews.IdentityMap().Remove(id)

	found, err := f.reviews.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 2021, found.Year())
	assert.Equal(t, "Good work", found.Summary())
	assert.Equal(t, emp, found.EmployeeID())
}

func TestFindByID_ReturnsSameInstance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	created, err := f.reviews.Create(ctx, 2022, "Steady", emp)
	require.NoError(t, err)
	id, _ := created.ID()

	a, err := f.reviews.FindByID(ctx, id)
	require.NoError(t, err)
	b, err := f.reviews.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Same(t, created, a)
}

func TestFindByID_Missing(t *testing.T) {
	f := newFixture(t)
	r, err := f.reviews.FindByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestCreate_ValidationExamples(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	_, err := f.reviews.Create(ctx, 1999, "ok", emp)
	assert.ErrorIs(t, err, domain.ErrInvalidYear)

	_, err = f.reviews.Create(ctx, 2000, "", emp)
	assert.ErrorIs(t, err, domain.ErrInvalidSummary)

	_, err = f.reviews.Create(ctx, 2000, "ok", 9999)
	assert.ErrorIs(t, err, domain.ErrInvalidEmployee)

	all, err := f.reviews.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "failed creates must not write rows")
	assert.Equal(t, 0, f.reviews.IdentityMap().Len())
}

func TestNew_DoesNotPersist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	r, err := f.reviews.New(ctx, 2020, "Draft", emp)
	require.NoError(t, err)
	assert.False(t, r.Persisted())

	all, err := f.reviews.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, f.reviews.Save(ctx, r))
	assert.True(t, r.Persisted())
	assert.Equal(t, 1, f.reviews.IdentityMap().Len())
}

func TestDelete_ThenFindAndReuse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	r, err := f.reviews.Create(ctx, 2021, "Good", emp)
	require.NoError(t, err)
	id, _ := r.ID()

	require.NoError(t, f.reviews.Delete(ctx, r))
	assert.False(t, r.Persisted())
	assert.Equal(t, 0, f.reviews.IdentityMap().Len())

	gone, err := f.reviews.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = f.reviews.Update(ctx, r)
	assert.ErrorIs(t, err, domain.ErrNotSaved)
	assert.EqualError(t, err, "cannot update a review that has not been saved")

	err = f.reviews.Delete(ctx, r)
	assert.ErrorIs(t, err, domain.ErrNotSaved)
	assert.EqualError(t, err, "cannot delete a review that has not been saved")

	// a deleted instance can be saved again as a new row
	require.NoError(t, f.reviews.Save(ctx, r))
	newID, ok := r.ID()
	require.True(t, ok)
	assert.NotEqual(t, int64(0), newID)
}

func TestUpdate_WritesSetterChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lee := f.employee(t, "Lee")
	sasha := f.employee(t, "Sasha")

	r, err := f.reviews.Create(ctx, 2021, "Good", lee)
	require.NoError(t, err)
	id, _ := r.ID()

	require.NoError(t, r.SetSummary("Great"))
	require.NoError(t, r.SetEmployeeID(ctx, sasha))
	require.NoError(t, f.reviews.Update(ctx, r))

	row, err := f.store.GetReviewRow(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Great", row.Summary.String)
	assert.Equal(t, sasha, row.EmployeeID.Int64)
}

func TestSave_UpdatePathDoesNotCheckExistence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	r, err := domain.RestoreReview(ctx, f.employees, 777, domain.ReviewValues{Year: 2020, Summary: "ghost", EmployeeID: emp})
	require.NoError(t, err)
	require.NoError(t, f.reviews.Update(ctx, r))

	row, err := f.store.GetReviewRow(ctx, 777)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGetAll_ReturnsEveryRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	a, err := f.reviews.Create(ctx, 2020, "first", emp)
	require.NoError(t, err)
	b, err := f.reviews.Create(ctx, 2021, "second", emp)
	require.NoError(t, err)

	all, err := f.reviews.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.ElementsMatch(t, []*domain.Review{a, b}, all)

	got := map[string]int{}
	for _, r := range all {
		got[r.Summary()] = r.Year()
	}
	assert.Equal(t, map[string]int{"first": 2020, "second": 2021}, got)
}

func TestInstanceFromRow_RefreshesCachedInstance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	r, err := f.reviews.Create(ctx, 2020, "before", emp)
	require.NoError(t, err)
	id, _ := r.ID()

	// change the row behind the repository's back
	_, err = f.store.DB().ExecContext(ctx, `UPDATE reviews SET summary = 'after', year = 2024 WHERE id = ?`, id)
	require.NoError(t, err)

	again, err := f.reviews.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Same(t, r, again)
	assert.Equal(t, "after", r.Summary())
	assert.Equal(t, 2024, r.Year())
}

func TestInstanceFromRow_NilAndInvalidRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	r, err := f.reviews.InstanceFromRow(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, r)

	// rows written outside the repository are validated on load
	_, err = f.store.DB().ExecContext(ctx, `INSERT INTO reviews (id, year, summary, employee_id) VALUES (50, 1990, 'old', ?)`, emp)
	require.NoError(t, err)
	_, err = f.reviews.FindByID(ctx, 50)
	assert.ErrorIs(t, err, domain.ErrInvalidYear)

	_, err = f.store.DB().ExecContext(ctx, `INSERT INTO reviews (id, year, summary, employee_id) VALUES (51, 2020, '', ?)`, emp)
	require.NoError(t, err)
	_, err = f.reviews.FindByID(ctx, 51)
	assert.ErrorIs(t, err, domain.ErrInvalidSummary)

	_, err = f.store.DB().ExecContext(ctx, `INSERT INTO reviews (id, year, summary, employee_id) VALUES (52, 2020, 'lost', 999)`)
	require.NoError(t, err)
	_, err = f.reviews.FindByID(ctx, 52)
	assert.ErrorIs(t, err, domain.ErrInvalidEmployee)

	assert.Equal(t, 0, f.reviews.IdentityMap().Len(), "invalid rows must not be cached")
}

func TestPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	r, err := f.reviews.Create(ctx, 2020, "Fine", emp)
	require.NoError(t, err)
	id, _ := r.ID()

	patched, err := f.reviews.Patch(ctx, id, domain.ReviewValues{Summary: "Better"})
	require.NoError(t, err)
	assert.Same(t, r, patched)
	assert.Equal(t, 2020, patched.Year())

	row, err := f.store.GetReviewRow(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Better", row.Summary.String)

	_, err = f.reviews.Patch(ctx, id, domain.ReviewValues{Year: "2021"})
	assert.ErrorIs(t, err, domain.ErrInvalidYear)

	missing, err := f.reviews.Patch(ctx, id+99, domain.ReviewValues{Summary: "x"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListByEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lee := f.employee(t, "Lee")
	sasha := f.employee(t, "Sasha")

	for _, emp := range []int64{lee, sasha, lee} {
		_, err := f.reviews.Create(ctx, 2021, "note", emp)
		require.NoError(t, err)
	}

	rs, err := f.reviews.ListByEmployee(ctx, lee)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	for _, r := range rs {
		assert.Equal(t, lee, r.EmployeeID())
	}
	views := f.reviews.Views(rs)
	assert.Less(t, *views[0].ID, *views[1].ID)
}

func TestCloseClearsIdentityMap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t, "Lee")

	_, err := f.reviews.Create(ctx, 2021, "a", emp)
	require.NoError(t, err)
	_, err = f.reviews.Create(ctx, 2022, "b", emp)
	require.NoError(t, err)
	assert.Equal(t, 2, f.reviews.IdentityMap().Len())

	f.reviews.Close()
	assert.Equal(t, 0, f.reviews.IdentityMap().Len())
}

// failingStore breaks every write.
type failingStore struct {
	domain.ReviewStore
	err error
}

func (s failingStore) InsertReview(ctx context.Context, year int, summary string, employeeID int64) (int64, error) {
	return 0, s.err
}

func (s failingStore) DeleteReview(ctx context.Context, id int64) error { return s.err }

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	repo := app.NewReviewRepository(failingStore{err: boom}, stubFinder{1: true}, nil)

	_, err := repo.Create(ctx, 2021, "Good", 1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsValidation(err))
	assert.Equal(t, 0, repo.IdentityMap().Len())

	r, err := domain.RestoreReview(ctx, stubFinder{1: true}, 5, domain.ReviewValues{Year: 2021, Summary: "x", EmployeeID: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Delete(ctx, r), boom)
	assert.True(t, r.Persisted(), "a failed delete keeps the id")
}
