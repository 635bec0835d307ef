package keys

import (
	"context"

	"github.com/privychat/sharekit/internal/models"
)

// Repository stores one content key per shareable target.
//
// Contract:
//   - GetOrCreate returns the stored key for the target if one exists,
//     otherwise persists candidate and returns it. Concurrent callers for
//     the same target all observe the same key.
//   - Get returns common.ErrorNotFound when no key has been created yet.
type Repository interface {
	GetOrCreate(ctx context.Context, kind models.TargetKind, id string, candidate []byte) ([]byte, error)
	Get(ctx context.Context, kind models.TargetKind, id string) ([]byte, error)
}
