package domain

// Indexable is anything that can be written to the search index: an
// identifier plus the attributes the document body is built from.
type Indexable interface {
	ID() string
	Attributes() map[string]any
}
