package mem

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the in-memory backend Graft node.
const NodeID graft.ID = "adapter.mem_backend"

func init() {
	graft.Register(graft.Node[*Backend]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Backend, error) {
			return New(), nil
		},
	})
}
