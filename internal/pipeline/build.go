package pipeline

import (
	"github.com/nftfolio/templatepress/internal/models"
)

// BuildImmutableSet produces the ordered immutable attribute list for a
// creation request. Fields left mutable are skipped: they remain editable
// per-asset after minting. Uploaded content identifiers replace raw values
// before coercion. Any coercion failure fails the whole build; a partial
// attribute list is never returned.
func BuildImmutableSet(attrs []models.SchemaAttribute, snapshot models.FormSnapshot, uploads []models.UploadedPayload) ([]models.ImmutableAttribute, error) {
	uploaded := make(map[string]string, len(uploads))
	for _, upload := range uploads {
		uploaded[upload.Field] = upload.ContentID
	}

	immutable := make([]models.ImmutableAttribute, 0, len(attrs))
	for _, attr := range attrs {
		if !attr.IsImmutable {
			continue
		}

		rawValue := snapshot.Attributes[attr.Name].String()
		if contentID, ok := uploaded[attr.Name]; ok {
			rawValue = contentID
		}

		coerced, err := Coerce(attr.Type, attr.Name, rawValue)
		if err != nil {
			return nil, &CoercionError{Field: attr.Name, Cause: err}
		}
		immutable = append(immutable, coerced)
	}
	return immutable, nil
}
