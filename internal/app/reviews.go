package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"staff_reviews/internal/domain"
)

// ReviewRepository maps Review instances to rows of the reviews table and
// keeps at most one live instance per persisted id.
//
// Every operation runs under one mutex: instances are shared through the
// identity map, so they must only be mutated by one caller at a time.
type ReviewRepository struct {
	mu        sync.Mutex
	store     domain.ReviewStore
	employees domain.EmployeeFinder
	idm       *IdentityMap
}

// NewReviewRepository wires the repository. A nil idm gets a fresh map.
func NewReviewRepository(store domain.ReviewStore, employees domain.EmployeeFinder, idm *IdentityMap) *ReviewRepository {
	if idm == nil {
		idm = NewIdentityMap()
	}
	return &ReviewRepository{store: store, employees: employees, idm: idm}
}

func (s *ReviewRepository) IdentityMap() *IdentityMap { return s.idm }

// CreateTable creates the reviews table if it does not exist.
func (s *ReviewRepository) CreateTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CreateReviewsTable(ctx)
}

// DropTable drops the reviews table if it exists. Cached instances are left
// alone; call Close to forget them.
func (s *ReviewRepository) DropTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DropReviewsTable(ctx)
}

// New builds an unsaved review. Nothing is written.
func (s *ReviewRepository) New(ctx context.Context, year int, summary string, employeeID int64) (*domain.Review, error) {
	return domain.NewReview(ctx, s.employees, year, summary, employeeID)
}

// Save inserts an unsaved review (assigning its id and registering it) or
// writes every column of a persisted one. The update path does not check
// that the row still exists.
func (s *ReviewRepository) Save(ctx context.Context, r *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, r)
}

func (s *ReviewRepository) save(ctx context.Context, r *domain.Review) error {
	if id, ok := r.ID(); ok {
		if err := s.store.UpdateReview(ctx, id, r.Year(), r.Summary(), r.EmployeeID()); err != nil {
			return fmt.Errorf("update review %d: %w", id, err)
		}
		log.Debug().Int64("review_id", id).Msg("review updated")
		return nil
	}

	id, err := s.store.InsertReview(ctx, r.Year(), r.Summary(), r.EmployeeID())
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	r.AssignID(id)
	s.idm.Put(id, r)
	log.Debug().Int64("review_id", id).Int64("employee_id", r.EmployeeID()).Msg("review inserted")
	return nil
}

// Create is New followed by Save.
func (s *ReviewRepository) Create(ctx context.Context, year int, summary string, employeeID int64) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := domain.NewReview(ctx, s.employees, year, summary, employeeID)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CreateFromValues is Create for untyped input such as decoded JSON.
func (s *ReviewRepository) CreateFromValues(ctx context.Context, v domain.ReviewValues) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := domain.NewReviewFromValues(ctx, s.employees, v)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// InstanceFromRow returns the live instance for row. A cached instance is
// refreshed from the row through the setters; otherwise a new instance is
// built and registered. A nil row yields (nil, nil).
func (s *ReviewRepository) InstanceFromRow(ctx context.Context, row *domain.ReviewRow) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instanceFromRow(ctx, row)
}

func (s *ReviewRepository) instanceFromRow(ctx context.Context, row *domain.ReviewRow) (*domain.Review, error) {
	if row == nil {
		return nil, nil
	}
	if r, ok := s.idm.Get(row.ID); ok {
		if err := r.Apply(ctx, row.Values()); err != nil {
			return nil, fmt.Errorf("refresh review %d: %w", row.ID, err)
		}
		return r, nil
	}

	r, err := domain.RestoreReview(ctx, s.employees, row.ID, row.Values())
	if err != nil {
		return nil, fmt.Errorf("load review %d: %w", row.ID, err)
	}
	s.idm.Put(row.ID, r)
	return r, nil
}

// FindByID returns the review with id, or (nil, nil) when no row matches.
func (s *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByID(ctx, id)
}

func (s *ReviewRepository) findByID(ctx context.Context, id int64) (*domain.Review, error) {
	row, err := s.store.GetReviewRow(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}
	return s.instanceFromRow(ctx, row)
}

// Update writes a persisted review back to its row.
func (s *ReviewRepository) Update(ctx context.Context, r *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !r.Persisted() {
		return domain.NotSaved("update")
	}
	return s.save(ctx, r)
}

// Patch loads id, applies the provided fields and saves the result.
// It returns (nil, nil) when no row matches.
func (s *ReviewRepository) Patch(ctx context.Context, id int64, v domain.ReviewValues) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.findByID(ctx, id)
	if err != nil || r == nil {
		return nil, err
	}
	if err := r.Apply(ctx, v); err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes the row, forgets the instance and clears its id. The
// instance stays usable as an unsaved review.
func (s *ReviewRepository) Delete(ctx context.Context, r *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := r.ID()
	if !ok {
		return domain.NotSaved("delete")
	}
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	s.idm.Remove(id)
	r.ClearID()
	log.Debug().Int64("review_id", id).Msg("review deleted")
	return nil
}

// GetAll returns one instance per row, in the order storage yields them.
func (s *ReviewRepository) GetAll(ctx context.Context) ([]*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.store.ListReviewRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return s.instances(ctx, rows)
}

// ListByEmployee returns the reviews of one employee ordered by id.
func (s *ReviewRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.store.ListReviewRowsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of employee %d: %w", employeeID, err)
	}
	return s.instances(ctx, rows)
}

func (s *ReviewRepository) instances(ctx context.Context, rows []domain.ReviewRow) ([]*domain.Review, error) {
	out := make([]*domain.Review, 0, len(rows))
	for i := range rows {
		r, err := s.instanceFromRow(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// View snapshots r under the repository lock.
func (s *ReviewRepository) View(r *domain.Review) domain.ReviewView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.View()
}

// Views snapshots rs under a single lock.
func (s *ReviewRepository) Views(rs []*domain.Review) []domain.ReviewView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ReviewView, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.View())
	}
	return out
}

// Close forgets every cached instance.
func (s *ReviewRepository) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idm.Clear()
}
