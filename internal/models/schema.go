package models

// FieldType is the declared type of a schema field. Schemas are defined
// per-collection and the type set is open: unknown declared types are carried
// through to the ledger untouched.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeBool   FieldType = "bool"
	FieldTypeUint64 FieldType = "uint64"
	FieldTypeDouble FieldType = "double"
	FieldTypeImage  FieldType = "image"
	FieldTypeIpfs   FieldType = "ipfs"
)

// RequiresUpload reports whether values of this type are stored as
// content-addressed identifiers rather than inline data.
func (t FieldType) RequiresUpload() bool {
	return t == FieldTypeImage || t == FieldTypeIpfs
}

// SchemaField is a single typed field in a schema's format definition.
type SchemaField struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Schema is a named, ordered list of typed fields defined once per collection.
type Schema struct {
	Name   string        `json:"schema_name"`
	Format []SchemaField `json:"format"`
}

// SchemaAttribute is a schema field annotated with the per-session immutable
// selection. The flag is UI state, never persisted schema state.
type SchemaAttribute struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	IsImmutable bool      `json:"is_immutable"`
}
