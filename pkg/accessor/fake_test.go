package accessor

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// fakeStore serves a single fakeCollection for every name.
type fakeStore struct {
	coll *fakeCollection
}

func (s *fakeStore) Collection(name string) (types.Collection, error) {
	if err := types.ValidateCollectionName(name); err != nil {
		return nil, err
	}
	return s.coll, nil
}

func (s *fakeStore) Attach(context.Context, types.Config) error { return nil }
func (s *fakeStore) Detach() error                               { return nil }

// fakeCollection returns canned documents per owner and injectable errors.
// A gate registered for an owner blocks Query until it is closed.
type fakeCollection struct {
	mu        sync.Mutex
	docs      map[string][]types.Document
	gates     map[string]chan struct{}
	entered   chan string
	queryErr  error
	insertErr error
	updateErr error
	deleteErr error
	queries   []types.Query
	updates   []map[string]any
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{
		docs:  make(map[string][]types.Document),
		gates: make(map[string]chan struct{}),
	}
}

func (c *fakeCollection) Insert(_ context.Context, fields map[string]any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.insertErr != nil {
		return "", c.insertErr
	}
	return "fake-id", nil
}

func (c *fakeCollection) Get(context.Context, string) (types.Document, error) {
	return types.Document{}, types.ErrNotFound
}

func (c *fakeCollection) Update(_ context.Context, _ string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, fields)
	return c.updateErr
}

func (c *fakeCollection) Delete(context.Context, string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleteErr
}

func (c *fakeCollection) Query(_ context.Context, q types.Query) ([]types.Document, error) {
	owner := q.Where[0].Value

	c.mu.Lock()
	c.queries = append(c.queries, q)
	gate := c.gates[owner]
	entered := c.entered
	c.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- owner
		}
		<-gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return c.docs[owner], nil
}

func (c *fakeCollection) queryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}
