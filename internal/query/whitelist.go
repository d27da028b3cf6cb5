// Package query turns untrusted client query parameters into validated,
// parameterized catalog queries. The per-entity Whitelist is the only trust
// boundary: parameters that don't pass it are dropped, never forwarded.
package query

type FieldType int

const (
	TypeText FieldType = iota
	TypeNumber
	TypeTime
	TypeBool
)

// Field binds an API field name to a database column and the value type
// client-supplied filter values must coerce to.
type Field struct {
	Column string
	Type   FieldType
}

// Whitelist is pure data: the attributes a client may filter, sort or
// select by for one entity. Column names used in SQL come exclusively from
// here, never from the request.
type Whitelist struct {
	Filterable map[string]Field
	Sortable   map[string]Field
	Selectable map[string]bool
}
