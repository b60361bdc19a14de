package composition

//go:generate go tool stringer -type=Kind -trimprefix=Kind

// Kind tells host types from composite types.
type Kind int

const (
	// KindHost types own columns and declare compositions.
	KindHost Kind = iota
	// KindComposite types are value objects composed from host columns.
	KindComposite
)
