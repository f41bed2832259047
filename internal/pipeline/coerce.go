package pipeline

import (
	"strconv"

	"github.com/nftfolio/templatepress/internal/models"
)

// videoFieldName takes the string-as-identifier path regardless of its
// declared type. This is the only name-based override; image and ipfs are
// matched by type.
const videoFieldName = "video"

// Coerce maps a declared schema type and raw form value to the wire-typed
// representation the ledger accepts. It is pure: payload uploads must already
// have substituted content identifiers for binary values.
func Coerce(declaredType models.FieldType, fieldName, rawValue string) (models.ImmutableAttribute, error) {
	attr := models.ImmutableAttribute{Key: fieldName}

	switch {
	case declaredType.RequiresUpload() || fieldName == videoFieldName:
		attr.WireType = models.WireTypeString
		attr.Value = rawValue

	case declaredType == models.FieldTypeBool:
		attr.WireType = models.WireTypeUint8
		if rawValue == "true" || rawValue == "1" {
			attr.Value = uint8(1)
		} else {
			attr.Value = uint8(0)
		}

	case declaredType == models.FieldTypeDouble:
		parsed, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			return models.ImmutableAttribute{}, &InvalidNumberError{Field: fieldName, Value: rawValue}
		}
		attr.WireType = models.WireTypeFloat64
		attr.Value = parsed

	case declaredType == models.FieldTypeUint64:
		parsed, err := strconv.ParseUint(rawValue, 10, 64)
		if err != nil {
			return models.ImmutableAttribute{}, &InvalidNumberError{Field: fieldName, Value: rawValue}
		}
		attr.WireType = models.WireTypeUint64
		attr.Value = parsed

	default:
		// Unknown declared types degrade to pass-through rather than
		// silently mis-encoding.
		attr.WireType = models.WireType(declaredType)
		attr.Value = rawValue
	}

	return attr, nil
}
