package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftfolio/templatepress/internal/models"
	"github.com/nftfolio/templatepress/internal/pipeline"
)

func buildAttrs() []models.SchemaAttribute {
	return []models.SchemaAttribute{
		{Name: "title", Type: models.FieldTypeString, IsImmutable: true},
		{Name: "power", Type: models.FieldTypeUint64, IsImmutable: true},
		{Name: "img", Type: models.FieldTypeImage},
	}
}

func TestBuildImmutableSetScenarioA(t *testing.T) {
	snapshot := models.FormSnapshot{
		Attributes: map[string]models.RawValue{
			"title": models.TextValue("Sword"),
			"power": models.TextValue("42"),
		},
	}

	immutable, err := pipeline.BuildImmutableSet(buildAttrs(), snapshot, nil)
	require.NoError(t, err)
	require.Len(t, immutable, 2, "only immutable-flagged fields are included")

	assert.Equal(t, models.ImmutableAttribute{Key: "title", WireType: models.WireTypeString, Value: "Sword"}, immutable[0])
	assert.Equal(t, models.ImmutableAttribute{Key: "power", WireType: models.WireTypeUint64, Value: uint64(42)}, immutable[1])
}

func TestBuildImmutableSetSubstitutesUploads(t *testing.T) {
	attrs := buildAttrs()
	attrs[2].IsImmutable = true

	snapshot := models.FormSnapshot{
		Attributes: map[string]models.RawValue{
			"title": models.TextValue("Sword"),
			"power": models.TextValue("42"),
			"img":   models.BlobValue([]byte{0x1}),
		},
	}
	uploads := []models.UploadedPayload{{Field: "img", ContentID: "Qm123"}}

	immutable, err := pipeline.BuildImmutableSet(attrs, snapshot, uploads)
	require.NoError(t, err)
	require.Len(t, immutable, 3)

	assert.Equal(t, models.ImmutableAttribute{Key: "img", WireType: models.WireTypeString, Value: "Qm123"}, immutable[2])
}

func TestBuildImmutableSetPreservesSchemaOrder(t *testing.T) {
	attrs := []models.SchemaAttribute{
		{Name: "z", Type: models.FieldTypeString, IsImmutable: true},
		{Name: "a", Type: models.FieldTypeString, IsImmutable: true},
		{Name: "m", Type: models.FieldTypeString, IsImmutable: true},
	}
	snapshot := models.FormSnapshot{
		Attributes: map[string]models.RawValue{
			"z": models.TextValue("1"), "a": models.TextValue("2"), "m": models.TextValue("3"),
		},
	}

	immutable, err := pipeline.BuildImmutableSet(attrs, snapshot, nil)
	require.NoError(t, err)

	keys := make([]string, len(immutable))
	for i, attr := range immutable {
		keys[i] = attr.Key
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestBuildImmutableSetFailsAtomically(t *testing.T) {
	snapshot := models.FormSnapshot{
		Attributes: map[string]models.RawValue{
			"title": models.TextValue("Sword"),
			"power": models.TextValue("not-a-number"),
		},
	}

	immutable, err := pipeline.BuildImmutableSet(buildAttrs(), snapshot, nil)
	require.Error(t, err)
	assert.Nil(t, immutable, "no partial attribute list on failure")

	var coercion *pipeline.CoercionError
	require.True(t, errors.As(err, &coercion))
	assert.Equal(t, "power", coercion.Field)

	var invalid *pipeline.InvalidNumberError
	assert.True(t, errors.As(err, &invalid))
}

func TestBuildImmutableSetSkipsMutableFields(t *testing.T) {
	attrs := []models.SchemaAttribute{
		{Name: "title", Type: models.FieldTypeString},
		{Name: "power", Type: models.FieldTypeUint64},
	}
	snapshot := models.FormSnapshot{
		Attributes: map[string]models.RawValue{"title": models.TextValue("Sword")},
	}

	immutable, err := pipeline.BuildImmutableSet(attrs, snapshot, nil)
	require.NoError(t, err)
	assert.Empty(t, immutable, "fields left mutable are not an error")
}
