// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface. erp-sync uses object
// storage for two things: sharing the cached ERP session token between hosts
// (session.ObjectStore) and publishing adjustment exports (stock.Exporter).
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the bucket when it does not exist yet.
//   - PutBytes / GetBytes: whole-object writes and reads; GetBytes maps a missing key
//     to ErrObjectNotFound.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.PutBytes(ctx, client, cfg.Storage.Bucket, "adjustments/run.csv", data, "text/csv")
package storage
