package pipeline

import (
	"fmt"

	"github.com/nftfolio/templatepress/internal/models"
)

// SelectSchema projects the named schema into a fresh attribute set. Every
// field starts mutable, regardless of any earlier selection: switching schemas
// intentionally discards prior flags and values, even when field names
// overlap.
func SelectSchema(schemas []models.Schema, schemaName string) ([]models.SchemaAttribute, error) {
	for _, schema := range schemas {
		if schema.Name != schemaName {
			continue
		}
		attrs := make([]models.SchemaAttribute, len(schema.Format))
		for i, field := range schema.Format {
			attrs[i] = models.SchemaAttribute{
				Name: field.Name,
				Type: field.Type,
			}
		}
		return attrs, nil
	}
	return nil, &SchemaNotFoundError{SchemaName: schemaName}
}

// SetImmutable returns a copy of attrs with exactly one field's immutable
// flag changed. The input slice is never mutated, so consumers can detect
// changes by identity.
func SetImmutable(attrs []models.SchemaAttribute, index int, immutable bool) ([]models.SchemaAttribute, error) {
	if index < 0 || index >= len(attrs) {
		return nil, fmt.Errorf("attribute index %d out of range [0,%d)", index, len(attrs))
	}
	next := make([]models.SchemaAttribute, len(attrs))
	copy(next, attrs)
	next[index].IsImmutable = immutable
	return next, nil
}
