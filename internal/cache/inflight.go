package cache

import (
	"context"
	"sync"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// Group coalesces concurrent fetches for the same key (the sorted
// unresolved-type list of a match cycle). The first caller becomes the leader
// and executes fn; every later caller for the same key awaits the leader's
// result instead of issuing its own outbound query.
type Group struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	done    chan struct{}
	records []model.Record
	err     error
}

// NewGroup creates an empty Group.
func NewGroup() *Group {
	return &Group{calls: make(map[string]*call)}
}

// Do runs fn once per key across concurrent callers. shared is true for
// followers that received the leader's result. A follower whose ctx ends
// before the leader finishes gets ctx.Err(); the leader itself always runs fn
// to completion so its result can still populate the cache.
func (g *Group) Do(ctx context.Context, key string, fn func() ([]model.Record, error)) (records []model.Record, shared bool, err error) {
	g.mu.Lock()
	if existing, ok := g.calls[key]; ok {
		g.mu.Unlock()
		select {
		case <-existing.done:
			return existing.records, true, existing.err
		case <-ctx.Done():
			return nil, true, ctx.Err()
		}
	}

	c := &call{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.records, c.err = fn()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(c.done)

	return c.records, false, c.err
}
