package application

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/RaiderT63/foodgram/pkg/helpers"
)

// ImageStore persists a decoded image and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

// GCSImageStore stores images in a Google Cloud Storage bucket.
type GCSImageStore struct {
	Client *storage.Client
	Bucket string
}

func NewGCSImageStore(client *storage.Client, bucket string) *GCSImageStore {
	return &GCSImageStore{Client: client, Bucket: bucket}
}

func (s *GCSImageStore) Save(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	if s.Client == nil || s.Bucket == "" {
		return "", errors.New("gcs not configured")
	}
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, bytes.NewReader(data))
}

// storeImagePayload accepts either an already-hosted http(s) URL (returned
// unchanged, used when an update resubmits the stored image) or a base64
// data URI, which is decoded and uploaded under prefix/.
func storeImagePayload(ctx context.Context, store ImageStore, prefix, payload string) (string, error) {
	if strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://") {
		return payload, nil
	}
	raw, contentType, ext, err := helpers.DecodeImageDataURI(payload)
	if err != nil {
		return "", err
	}
	objectPath := path.Join(prefix, uuid.NewString()+ext)
	return store.Save(ctx, objectPath, contentType, raw)
}
