package types

// Standard collection names.
const (
	BrandsCollection   = "brands"
	ProductsCollection = "products"
)

// Reserved document field names. FieldOwner scopes every read and write.
const (
	FieldID        = "id"
	FieldOwner     = "createdBy"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// StandardCollectionNames lists the collections Brandly manages.
var StandardCollectionNames = []string{
	BrandsCollection,
	ProductsCollection,
}
