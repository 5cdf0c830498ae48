package selection

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

type dependent interface {
	begin(parentID string) uint64
	complete(ctx context.Context, parentID string, gen uint64) error
}

// Chain drives several resolvers from one parent picker, e.g. the project selection
// feeding both the scheme and the unit lists. Every dependent is cleared before any
// fetch starts.
type Chain struct {
	mu       sync.Mutex
	parentID string
	deps     []dependent
}

// NewChain links the given resolvers to one parent.
func NewChain(deps ...dependent) *Chain {
	return &Chain{deps: deps}
}

// SelectParent clears every dependent, then fetches all of them concurrently. One
// failing fetch does not cancel the others, so each dependent keeps its own outcome;
// the first failure is returned. Stale results are not reported as errors.
func (c *Chain) SelectParent(ctx context.Context, parentID string) error {
	c.mu.Lock()
	c.parentID = parentID
	c.mu.Unlock()

	gens := make([]uint64, len(c.deps))
	for i, d := range c.deps {
		gens[i] = d.begin(parentID)
	}

	var g errgroup.Group
	for i, d := range c.deps {
		g.Go(func() error {
			if err := d.complete(ctx, parentID, gens[i]); err != nil && !errors.Is(err, ErrStale) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// ParentID returns the last parent passed to SelectParent.
func (c *Chain) ParentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parentID
}
