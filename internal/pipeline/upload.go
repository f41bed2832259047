package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nftfolio/templatepress/internal/models"
)

// Uploader pins one binary payload and returns its content identifier.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// PayloadUploader resolves every binary-valued field of a form snapshot to a
// content identifier before coercion.
type PayloadUploader struct {
	uploader Uploader
}

// NewPayloadUploader creates a new PayloadUploader.
func NewPayloadUploader(uploader Uploader) *PayloadUploader {
	return &PayloadUploader{uploader: uploader}
}

// UploadAll uploads every non-empty blob in the snapshot concurrently,
// preserving attribute order in the result. The first failure cancels the
// remaining uploads and fails the whole batch: partial substitution of
// attribute values is never allowed. Fields without a blob are skipped and
// are not an error. An empty batch returns an empty result with no calls.
func (p *PayloadUploader) UploadAll(ctx context.Context, attrs []models.SchemaAttribute, snapshot models.FormSnapshot) ([]models.UploadedPayload, error) {
	type blobField struct {
		name string
		data []byte
	}

	var fields []blobField
	for _, attr := range attrs {
		value, ok := snapshot.Attributes[attr.Name]
		if !ok || !value.HasBlob() {
			continue
		}
		fields = append(fields, blobField{name: attr.Name, data: value.Blob})
	}
	if len(fields) == 0 {
		return nil, nil
	}

	results := make([]models.UploadedPayload, len(fields))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, field := range fields {
		i, field := i, field
		group.Go(func() error {
			contentID, err := p.uploader.Upload(groupCtx, field.name, field.data)
			if err != nil {
				return &UploadError{Field: field.name, Cause: err}
			}
			results[i] = models.UploadedPayload{Field: field.name, ContentID: contentID}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
