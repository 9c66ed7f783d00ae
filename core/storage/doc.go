// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface used by the markdown
// export. Both AWS S3 and self-hosted MinIO instances are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - EnsureBucket: Creates the target bucket if needed.
//   - PutText: Uploads a rendered document.
//   - ListKeys: Lists object keys under a prefix (recursive).
//   - RemoveKey: Deletes exports of pages that no longer exist.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	err = storage.EnsureBucket(ctx, client, "pages", "")
//	err = storage.PutText(ctx, client, "pages", "notes/Reading.md", text, "text/markdown")
package storage
