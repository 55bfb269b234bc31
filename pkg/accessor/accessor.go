// Package accessor provides the generic, owner-scoped data-access layer for
// Brandly collections.
//
// An Accessor binds an entity type to a collection and an owner identity.
// FetchAll and Search replace a cached result set; Add, Update and Remove
// write through to the store and never refresh the cache. Callers refresh
// explicitly after mutating.
package accessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// searchSentinel is appended to a prefix to form the inclusive upper bound
// of a prefix range.
const searchSentinel = "\uf8ff"

// Read operations that replace a result set.
const (
	opFetch  = "fetch"
	opSearch = "search"
)

// State is a snapshot of an accessor's cached result set.
type State[T types.Entity] struct {
	Data    []T
	Loading bool
	Err     string
}

// Accessor provides owner-scoped CRUD and prefix search over one collection.
// It is safe for concurrent use.
type Accessor[T types.Entity] struct {
	name        string
	coll        types.Collection
	cache       *Cache
	logger      zerolog.Logger
	now         func() time.Time
	constraints []types.Predicate
	scope       string

	mu    sync.RWMutex
	owner string
}

// New binds an accessor for T to the named collection of store and to owner.
// An empty owner is allowed; FetchAll then stays loading until SetOwner.
// Constraints must be equality predicates.
func New[T types.Entity](store types.Store, collection, owner string, opts ...Option) (*Accessor[T], error) {
	o := options{logger: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = NewCache()
	}
	for _, p := range o.constraints {
		if err := types.ValidateFieldName(p.Field); err != nil {
			return nil, err
		}
		if p.Op != types.OpEqual {
			return nil, fmt.Errorf("%w: constraint on %q must be an equality", types.ErrInvalidFilter, p.Field)
		}
	}

	coll, err := store.Collection(collection)
	if err != nil {
		return nil, err
	}

	return &Accessor[T]{
		name:        collection,
		coll:        coll,
		cache:       o.cache,
		logger:      o.logger.With().Str("collection", collection).Logger(),
		now:         o.now,
		constraints: o.constraints,
		scope:       scopeOf(o.constraints),
		owner:       owner,
	}, nil
}

// Collection returns the bound collection name.
func (a *Accessor[T]) Collection() string { return a.name }

// Owner returns the current owner identity.
func (a *Accessor[T]) Owner() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.owner
}

// Key returns the cache key for the current owner.
func (a *Accessor[T]) Key() Key {
	return Key{Collection: a.name, Owner: a.Owner(), Scope: a.scope}
}

// SetOwner rebinds the accessor to owner and fetches its documents.
// An in-flight fetch for the previous owner still lands in that owner's
// cache entry.
func (a *Accessor[T]) SetOwner(ctx context.Context, owner string) error {
	a.mu.Lock()
	a.owner = owner
	a.mu.Unlock()
	return a.FetchAll(ctx)
}

// FetchAll replaces the cached result set with every document owned by the
// current owner. With no owner it makes no store call and the state stays
// loading. On failure the previous result set is kept and ErrFetchFailed is
// returned; the store error is logged.
func (a *Accessor[T]) FetchAll(ctx context.Context) error {
	key := a.Key()
	if key.Owner == "" {
		a.cache.update(key, func(e *entry) { e.loading = true })
		return nil
	}
	return a.run(ctx, key, opFetch, a.ownerQuery(key.Owner), ErrFetchFailed)
}

// Refresh is FetchAll, for use after mutations.
func (a *Accessor[T]) Refresh(ctx context.Context) error {
	return a.FetchAll(ctx)
}

// Load fetches only when the cache entry for the current owner is missing,
// has never loaded, holds a search result, or has been invalidated.
func (a *Accessor[T]) Load(ctx context.Context) error {
	e := a.cache.snapshot(a.Key())
	if e.loaded && !e.stale && !e.searched {
		return nil
	}
	return a.FetchAll(ctx)
}

// Invalidate marks the current owner's cache entry stale.
func (a *Accessor[T]) Invalidate() {
	a.cache.Invalidate(a.Key())
}

// Search replaces the cached result set with the owner's documents whose
// field starts with term. On failure the previous result set is kept and
// ErrSearchFailed is returned.
func (a *Accessor[T]) Search(ctx context.Context, field, term string) error {
	if err := types.ValidateFieldName(field); err != nil {
		return err
	}
	key := a.Key()
	if key.Owner == "" {
		return types.ErrOwnerRequired
	}

	q := a.ownerQuery(key.Owner)
	q.Where = append(q.Where,
		types.Predicate{Field: field, Op: types.OpGreaterOrEqual, Value: term},
		types.Predicate{Field: field, Op: types.OpLessOrEqual, Value: term + searchSentinel},
	)
	return a.run(ctx, key, opSearch, q, ErrSearchFailed)
}

// Add inserts entity for the current owner and returns its new ID. The ID,
// owner and timestamps carried by entity are ignored; createdBy and
// createdAt are stamped here.
func (a *Accessor[T]) Add(ctx context.Context, entity T) (string, error) {
	key := a.Key()
	if key.Owner == "" {
		return "", types.ErrOwnerRequired
	}
	fields, err := encode(entity)
	if err != nil {
		return "", err
	}
	fields[types.FieldOwner] = key.Owner
	fields[types.FieldCreatedAt] = a.stamp()

	id, err := a.coll.Insert(ctx, fields)
	if err != nil {
		return "", a.fail(key, "add", ErrAddFailed, err)
	}
	a.logger.Debug().Str("owner", key.Owner).Str("id", id).Msg("document added")
	return id, nil
}

// Update merges fields into document id and stamps updatedAt. Ownership of
// id is not re-checked. The id and createdBy keys may not be changed, and
// values must decode into T's field types.
func (a *Accessor[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	key := a.Key()
	if key.Owner == "" {
		return types.ErrOwnerRequired
	}
	patch := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if k == types.FieldID || k == types.FieldOwner {
			return fmt.Errorf("%w: field %q cannot be updated", types.ErrInvalidData, k)
		}
		patch[k] = v
	}
	patch[types.FieldUpdatedAt] = a.stamp()
	if _, err := decode[T](types.Document{ID: id, Fields: patch}); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}

	if err := a.coll.Update(ctx, id, patch); err != nil {
		return a.fail(key, "update", ErrUpdateFailed, err)
	}
	return nil
}

// Remove deletes document id. Deleting a missing document is not an error.
func (a *Accessor[T]) Remove(ctx context.Context, id string) error {
	key := a.Key()
	if key.Owner == "" {
		return types.ErrOwnerRequired
	}
	if err := a.coll.Delete(ctx, id); err != nil {
		return a.fail(key, "delete", ErrDeleteFailed, err)
	}
	return nil
}

// State returns a copy of the current owner's cached result set.
func (a *Accessor[T]) State() State[T] {
	e := a.cache.snapshot(a.Key())
	data, _ := e.data.([]T)
	out := make([]T, len(data))
	copy(out, data)
	return State[T]{Data: out, Loading: e.loading, Err: e.err}
}

// Find returns the cached entity with the given ID.
func (a *Accessor[T]) Find(id string) (T, bool) {
	e := a.cache.snapshot(a.Key())
	data, _ := e.data.([]T)
	for _, v := range data {
		if v.EntityID() == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (a *Accessor[T]) ownerQuery(owner string) types.Query {
	where := make([]types.Predicate, 0, len(a.constraints)+3)
	where = append(where, types.Where(types.FieldOwner, owner))
	where = append(where, a.constraints...)
	return types.Query{Where: where}
}

// run executes a read that replaces the result set of key.
func (a *Accessor[T]) run(ctx context.Context, key Key, op string, q types.Query, failure error) error {
	a.cache.update(key, func(e *entry) {
		e.loading = true
		e.err = ""
	})

	docs, err := a.coll.Query(ctx, q)
	if err != nil {
		a.logFailure(key, op, err)
		a.cache.update(key, func(e *entry) {
			e.loading = false
			e.err = failure.Error()
		})
		return failure
	}

	data := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := decode[T](doc)
		if err != nil {
			a.logger.Warn().Err(err).Str("owner", key.Owner).Str("op", op).Msg("skipping undecodable document")
			continue
		}
		data = append(data, v)
	}

	a.cache.update(key, func(e *entry) {
		e.data = data
		e.loading = false
		e.loaded = true
		e.stale = false
		e.searched = op == opSearch
		e.fetchedAt = a.now()
	})
	a.logger.Debug().Str("owner", key.Owner).Str("op", op).Int("count", len(data)).Msg("result set replaced")
	return nil
}

// fail records a mutation failure and returns an error carrying both the
// operation class and the store error.
func (a *Accessor[T]) fail(key Key, op string, class, err error) error {
	a.logFailure(key, op, err)
	a.cache.update(key, func(e *entry) { e.err = class.Error() })
	return fmt.Errorf("%w: %w", class, err)
}

func (a *Accessor[T]) logFailure(key Key, op string, err error) {
	a.logger.Error().Err(err).Str("owner", key.Owner).Str("op", op).Msg("store operation failed")
}

func (a *Accessor[T]) stamp() string {
	return a.now().UTC().Format(time.RFC3339Nano)
}
