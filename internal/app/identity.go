package app

import (
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"staff_reviews/internal/adapters/observability"
	"staff_reviews/internal/domain"
)

// IdentityMap holds the single live instance for every persisted review id.
// It is created at startup, handed to the repository, and cleared on shutdown.
type IdentityMap struct {
	m *xsync.MapOf[int64, *domain.Review]
}

func NewIdentityMap() *IdentityMap {
	return &IdentityMap{m: xsync.NewMapOf[int64, *domain.Review]()}
}

func (im *IdentityMap) Get(id int64) (*domain.Review, bool) {
	r, ok := im.m.Load(id)
	observability.ObserveIdentityMap(ok)
	return r, ok
}

func (im *IdentityMap) Put(id int64, r *domain.Review) {
	im.m.Store(id, r)
	observability.SetIdentityMapSize(im.m.Size())
}

// Remove drops id; removing an absent id is a no-op.
func (im *IdentityMap) Remove(id int64) {
	im.m.Delete(id)
	observability.SetIdentityMapSize(im.m.Size())
}

func (im *IdentityMap) Len() int { return im.m.Size() }

func (im *IdentityMap) Clear() {
	im.m.Clear()
	observability.SetIdentityMapSize(0)
}

// Snapshot returns the cached ids in ascending order.
func (im *IdentityMap) Snapshot() []int64 {
	ids := make([]int64, 0, im.m.Size())
	im.m.Range(func(id int64, _ *domain.Review) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
