package session

import (
	"context"
	"errors"

	"erp-sync/core/storage"
)

// ObjectStore keeps the token cache in object storage so several hosts can share
// one ERP login.
type ObjectStore struct {
	client     storage.Client
	bucket     string
	objectName string
	tokenField string
}

// NewObjectStore creates an object storage backed store.
func NewObjectStore(client storage.Client, bucket, objectName, tokenField string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, objectName: objectName, tokenField: tokenField}
}

// Load downloads the token cache. A missing object is not an error.
func (o *ObjectStore) Load(ctx context.Context) (*Session, error) {
	data, err := storage.GetBytes(ctx, o.client, o.bucket, o.objectName)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeToken(o.tokenField, data)
}

// Save uploads the token cache.
func (o *ObjectStore) Save(ctx context.Context, s Session) error {
	data, err := encodeToken(o.tokenField, s)
	if err != nil {
		return err
	}
	return storage.PutBytes(ctx, o.client, o.bucket, o.objectName, data, "application/json")
}
