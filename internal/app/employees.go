package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"staff_reviews/internal/domain"
)

// EmployeeDirectory resolves and manages employees. Positive lookups are
// cached read-through when a cache is configured; misses are never cached.
type EmployeeDirectory struct {
	store    domain.EmployeeStore
	cache    domain.Cache
	cacheTTL time.Duration
}

var _ domain.EmployeeFinder = (*EmployeeDirectory)(nil)

// NewEmployeeDirectory builds the directory. cache may be nil.
func NewEmployeeDirectory(store domain.EmployeeStore, cache domain.Cache, ttl time.Duration) *EmployeeDirectory {
	return &EmployeeDirectory{store: store, cache: cache, cacheTTL: ttl}
}

func employeeKey(id int64) string { return fmt.Sprintf("employee:%d", id) }

// FindByID returns the employee with id, or (nil, nil) when there is none.
func (d *EmployeeDirectory) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	key := employeeKey(id)
	if d.cache != nil {
		var e domain.Employee
		ok, err := d.cache.Get(ctx, key, &e)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("employee cache read failed")
		}
		if ok && err == nil {
			return &e, nil
		}
	}

	e, err := d.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get employee %d: %w", id, err)
	}
	if e != nil && d.cache != nil {
		if err := d.cache.Set(ctx, key, e, int(d.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("employee cache write failed")
		}
	}
	return e, nil
}

// Get is FindByID with ErrNotFound for a missing employee.
func (d *EmployeeDirectory) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	e, err := d.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (d *EmployeeDirectory) Create(ctx context.Context, name, jobTitle string) (*domain.Employee, error) {
	e := domain.Employee{Name: name, JobTitle: jobTitle}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	id, err := d.store.InsertEmployee(ctx, name, jobTitle)
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	e.ID = id
	log.Debug().Int64("employee_id", id).Msg("employee inserted")
	return &e, nil
}

func (d *EmployeeDirectory) List(ctx context.Context) ([]domain.Employee, error) {
	out, err := d.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

// Delete removes the employee row and evicts its cache entry.
func (d *EmployeeDirectory) Delete(ctx context.Context, id int64) error {
	if err := d.store.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if d.cache != nil {
		if err := d.cache.Del(ctx, employeeKey(id)); err != nil {
			log.Warn().Err(err).Int64("employee_id", id).Msg("employee cache evict failed")
		}
	}
	return nil
}

func (d *EmployeeDirectory) CreateTable(ctx context.Context) error {
	return d.store.CreateEmployeesTable(ctx)
}

// DropTable drops the employees table. Cached entries expire on their TTL.
func (d *EmployeeDirectory) DropTable(ctx context.Context) error {
	return d.store.DropEmployeesTable(ctx)
}
