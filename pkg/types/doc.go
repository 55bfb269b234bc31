// Package types defines the Store and Collection interfaces, the document and
// query model, the Brand and Product entities, and the standard errors shared
// by every Brandly backend.
package types
