package blob

import "context"

type Repository interface {
	Create(ctx context.Context, b *Blob) error
	GetBySID(ctx context.Context, sid string) (*Blob, error)
	// GetBySIDs returns the blobs that exist among sids, keyed by SID.
	GetBySIDs(ctx context.Context, sids []string) (map[string]*Blob, error)
}
