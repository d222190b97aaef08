package fs

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the filesystem backend Graft node.
const NodeID graft.ID = "adapter.fs_backend"

func init() {
	graft.Register(graft.Node[*Backend]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Backend, error) {
			return New(), nil
		},
	})
}
