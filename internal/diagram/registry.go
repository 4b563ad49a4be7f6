package diagram

import (
	"errors"
	"sync"

	"github.com/dshills/inkline/internal/engine/buffer"
)

// Errors returned by registry operations.
var (
	ErrNotMaterialized = errors.New("diagram has no image handle")
	ErrDuplicateRecord = errors.New("diagram already recorded for buffer and range")
)

// Registry is the live set of materialized diagram records across
// all buffers. It owns the association between a diagram and its
// displayed image, and disposes images when a buffer is cleared.
//
// At most one record exists per (buffer, range) pair. Insertion
// order is preserved; lookups are linear scans, which is fine at the
// single-digit diagram counts a buffer typically holds.
//
// Registry is safe for concurrent use. Its lifecycle is tied to the
// owning session; there is no package-level instance.
type Registry struct {
	mu      sync.Mutex
	records []*Diagram
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Record inserts a materialized diagram. The diagram must already
// carry a non-nil image handle. Returns ErrDuplicateRecord if a
// record for the same (buffer, range) pair already exists.
func (r *Registry) Record(d *Diagram) error {
	if d.Image == nil {
		return ErrNotMaterialized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.records {
		if existing.BufferID == d.BufferID && existing.Range == d.Range {
			return ErrDuplicateRecord
		}
	}
	r.records = append(r.records, d)
	return nil
}

// Clear disposes the images of every record belonging to the given
// buffer and removes those records. Clearing a buffer with no
// records is a no-op; Clear is idempotent.
func (r *Registry) Clear(bufID buffer.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, d := range r.records {
		if d.BufferID != bufID {
			kept = append(kept, d)
			continue
		}
		if d.Image != nil {
			// Disposal failures are not actionable here; the handle
			// is dropped either way.
			_ = d.Image.Clear()
			d.Image = nil
		}
	}
	// Zero the tail so dropped records are collectable.
	for i := len(kept); i < len(r.records); i++ {
		r.records[i] = nil
	}
	r.records = kept
}

// ForBuffer returns the records belonging to the given buffer, in
// insertion order.
func (r *Registry) ForBuffer(bufID buffer.ID) []*Diagram {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Diagram
	for _, d := range r.records {
		if d.BufferID == bufID {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the total number of records across all buffers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
