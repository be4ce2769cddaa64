// Package store defines the persistence contract for retrospectives. The
// concrete backends (memory, sqlite, postgres) live in subpackages and are
// selected at startup by internal/backend.
package store

import (
	"context"

	"retro/internal/core"
)

// Store is the single contract every persistence backend satisfies.
//
// Semantics shared by all implementations:
//   - List returns records ordered by date descending, created_at
//     descending on ties, and reflects every committed mutation.
//   - Get returns (nil, nil) when the id does not exist; absence is not an
//     error.
//   - Insert persists a fully stamped record atomically; on failure no
//     partial record is left behind.
//   - Update merges only the fields set in the patch and returns the
//     updated record. Derived fields are never touched. Returns
//     core.ErrNotFound for unknown ids.
//   - Delete removes the record and returns core.ErrNotFound when the id
//     is already absent. That policy is deliberate: a second delete of the
//     same id reports not-found rather than silently succeeding.
//
// Concurrent edits to the same id are last-write-wins; each backend
// serializes its own operations and no additional locking is layered on
// top.
type Store interface {
	List(ctx context.Context) ([]core.Retrospective, error)
	Get(ctx context.Context, id string) (*core.Retrospective, error)
	Insert(ctx context.Context, rec core.Retrospective) error
	Update(ctx context.Context, id string, patch core.Patch) (*core.Retrospective, error)
	Delete(ctx context.Context, id string) error
}
