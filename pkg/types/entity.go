package types

// Entity is a document shape that can be decoded from a Document.
// EntityID returns the store-assigned identifier, empty before insertion.
type Entity interface {
	EntityID() string
}
