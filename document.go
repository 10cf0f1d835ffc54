package flatcol

// Document is the contract a type must satisfy to be stored in a Collection.
//
// The type parameter is the document type itself (the interface is
// self-referential so CheckAgainst receives a concrete value, not an
// interface).
type Document[T any] interface {
	// Key returns the document's unique key. It must be stable for the
	// document's lifetime.
	Key() string

	// CheckAgainst reports whether storing candidate alongside the receiver
	// would violate a domain uniqueness constraint (e.g. a duplicate
	// secondary field). A non-nil return rejects the candidate; the returned
	// error becomes the cause of the resulting ConstraintError.
	//
	// The engine never calls CheckAgainst with a candidate that has the
	// receiver's own key: a document does not clash with its own value.
	CheckAgainst(candidate T) error
}

// UniqueKeyer is an optional interface a document type may implement to
// declare its uniqueness constraint as a structured key.
//
// When implemented, the collection maintains a secondary index mapping unique
// keys to document keys and rejects clashing inserts/updates in O(1) instead
// of scanning every stored document through CheckAgainst. The declared key
// replaces the scan entirely, so it must capture the whole constraint.
type UniqueKeyer interface {
	UniqueKey() string
}
