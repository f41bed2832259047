package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftfolio/templatepress/internal/models"
)

func TestImmutableAttributeMarshalsToPairShape(t *testing.T) {
	attr := models.ImmutableAttribute{
		Key:      "power",
		WireType: models.WireTypeUint64,
		Value:    uint64(42),
	}

	data, err := json.Marshal(attr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"power","value":["uint64",42]}`, string(data))
}

func TestImmutableAttributeUnmarshal(t *testing.T) {
	var attr models.ImmutableAttribute
	require.NoError(t, json.Unmarshal([]byte(`{"key":"title","value":["string","Sword"]}`), &attr))

	assert.Equal(t, "title", attr.Key)
	assert.Equal(t, models.WireTypeString, attr.WireType)
	assert.Equal(t, "Sword", attr.Value)
}

func TestImmutableAttributeUnmarshalBadTag(t *testing.T) {
	var attr models.ImmutableAttribute
	err := json.Unmarshal([]byte(`{"key":"title","value":[7,"Sword"]}`), &attr)
	assert.Error(t, err)
}

func TestCollectionIsAuthorized(t *testing.T) {
	collection := models.Collection{
		Name:               "swords",
		Author:             "forgemaster",
		AuthorizedAccounts: []string{"apprentice", "smith"},
	}

	assert.True(t, collection.IsAuthorized("forgemaster"))
	assert.True(t, collection.IsAuthorized("apprentice"))
	assert.True(t, collection.IsAuthorized("smith"))
	assert.False(t, collection.IsAuthorized("stranger"))
	assert.False(t, collection.IsAuthorized(""))
}

func TestRawValueString(t *testing.T) {
	assert.Equal(t, "Sword", models.TextValue("Sword").String())
	assert.Equal(t, "true", models.BoolValue(true).String())
	assert.Equal(t, "false", models.BoolValue(false).String())
	assert.True(t, models.BlobValue([]byte{0x1}).HasBlob())
	assert.False(t, models.TextValue("x").HasBlob())
}
