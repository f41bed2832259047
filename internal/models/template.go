package models

import (
	"encoding/json"
	"fmt"
)

// WireType is the closed set of type tags the ledger accepts for immutable
// attribute values. Declared types outside the coercion rules pass through
// with their own tag.
type WireType string

const (
	WireTypeString  WireType = "string"
	WireTypeUint8   WireType = "uint8"
	WireTypeUint64  WireType = "uint64"
	WireTypeFloat64 WireType = "float64"
)

// ImmutableAttribute is a (key, typed value) pair permanently fixed on a
// template. It serializes to the ledger's pair shape:
//
//	{"key": "power", "value": ["uint64", 42]}
type ImmutableAttribute struct {
	Key      string
	WireType WireType
	Value    any
}

type immutableAttributeJSON struct {
	Key   string `json:"key"`
	Value [2]any `json:"value"`
}

func (a ImmutableAttribute) MarshalJSON() ([]byte, error) {
	return json.Marshal(immutableAttributeJSON{
		Key:   a.Key,
		Value: [2]any{string(a.WireType), a.Value},
	})
}

func (a *ImmutableAttribute) UnmarshalJSON(data []byte) error {
	var raw immutableAttributeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tag, ok := raw.Value[0].(string)
	if !ok {
		return fmt.Errorf("immutable attribute %q: value tag is not a string", raw.Key)
	}
	a.Key = raw.Key
	a.WireType = WireType(tag)
	a.Value = raw.Value[1]
	return nil
}

// TemplateCreationRequest is the unit submitted atomically to the ledger.
// The ledger either produces exactly one new template or none.
type TemplateCreationRequest struct {
	Creator        string               `json:"authorized_creator" validate:"required"`
	CollectionName string               `json:"collection_name" validate:"required"`
	SchemaName     string               `json:"schema_name" validate:"required"`
	Transferable   bool                 `json:"transferable"`
	Burnable       bool                 `json:"burnable"`
	MaxSupply      uint64               `json:"max_supply" validate:"required,gt=0"`
	ImmutableData  []ImmutableAttribute `json:"immutable_data"`
}

// Template is a template row as returned by the listing endpoint.
type Template struct {
	TemplateID     string `json:"template_id"`
	CollectionName string `json:"collection_name"`
	SchemaName     string `json:"schema_name"`
	Transferable   bool   `json:"is_transferable"`
	Burnable       bool   `json:"is_burnable"`
	MaxSupply      string `json:"max_supply"`
	CreatedAtBlock string `json:"created_at_block"`
}
