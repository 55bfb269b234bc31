package accessor

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

type options struct {
	logger      zerolog.Logger
	now         func() time.Time
	cache       *Cache
	constraints []types.Predicate
}

// Option configures an Accessor.
type Option func(*options)

// WithLogger sets the logger that receives store errors and fetch results.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCache shares a cache between accessors. Accessors with the same
// collection, owner and constraints read and write the same entry.
func WithCache(c *Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithClock replaces time.Now for createdAt and updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithConstraints adds fixed equality predicates to every fetch and search,
// for example types.Where("brandId", id).
func WithConstraints(preds ...types.Predicate) Option {
	return func(o *options) { o.constraints = append(o.constraints, preds...) }
}
