package models

// RawValue is a single user-supplied attribute value as captured from the
// form: text, a boolean, or an opaque binary blob. At most one blob per field.
type RawValue struct {
	Text string `json:"text,omitempty"`
	Bool bool   `json:"bool,omitempty"`
	Blob []byte `json:"-"`

	// IsBool distinguishes an explicit boolean value from empty text.
	IsBool bool `json:"is_bool,omitempty"`
}

// TextValue builds a textual RawValue.
func TextValue(s string) RawValue { return RawValue{Text: s} }

// BoolValue builds a boolean RawValue.
func BoolValue(b bool) RawValue { return RawValue{Bool: b, IsBool: true} }

// BlobValue builds a binary RawValue.
func BlobValue(data []byte) RawValue { return RawValue{Blob: data} }

// HasBlob reports whether the value carries a non-empty binary payload.
func (v RawValue) HasBlob() bool { return len(v.Blob) > 0 }

// String returns the textual form of the value as it is handed to coercion.
func (v RawValue) String() string {
	if v.IsBool {
		if v.Bool {
			return "true"
		}
		return "false"
	}
	return v.Text
}

// FormSnapshot is everything captured from the template form at the moment of
// submission. Attribute values are keyed by schema field name.
type FormSnapshot struct {
	SchemaName   string              `json:"schema_name" validate:"required"`
	Transferable bool                `json:"transferable"`
	Burnable     bool                `json:"burnable"`
	MaxSupply    uint64              `json:"max_supply" validate:"required,gt=0"`
	Attributes   map[string]RawValue `json:"attributes"`
}

// UploadedPayload records the content identifier returned for one binary
// field. Produced only for fields that carried a non-empty blob at submission.
type UploadedPayload struct {
	Field     string `json:"field"`
	ContentID string `json:"content_id"`
}
