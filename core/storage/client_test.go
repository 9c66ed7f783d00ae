package storage_test

import (
	"context"
	"errors"
	"testing"

	"refsync/core/storage"
	"refsync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "pages").Return(true, nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "pages", ""))
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "pages").Return(false, nil)
		m.On("MakeBucket", ctx, "pages", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "pages", "eu-west-1"))
		m.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "pages").Return(false, errors.New("denied"))

		err := storage.EnsureBucket(ctx, m, "pages", "")
		assert.ErrorContains(t, err, "denied")
	})
}

func TestPutText(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("PutObject", ctx, "pages", "out/a.md", "# A\n", int64(4), minio.PutObjectOptions{ContentType: "text/markdown"}).
		Return(minio.UploadInfo{Key: "out/a.md"}, nil)

	require.NoError(t, storage.PutText(ctx, m, "pages", "out/a.md", "# A\n", "text/markdown"))
	m.AssertExpectations(t)
}

func TestListKeys(t *testing.T) {
	ctx := context.Background()
	opts := minio.ListObjectsOptions{Prefix: "out/", Recursive: true}

	m := new(mocks.Client)
	m.On("ListObjects", ctx, "pages", opts).Return(mocks.Objects(minio.ObjectInfo{Key: "out/a.md"}, minio.ObjectInfo{Key: "out/b.md"})).Once()
	keys, err := storage.ListKeys(ctx, m, "pages", "out/")
	require.NoError(t, err)
	assert.Equal(t, []string{"out/a.md", "out/b.md"}, keys)

	m.On("ListObjects", ctx, "pages", opts).Return(mocks.Objects(minio.ObjectInfo{Err: errors.New("boom")})).Once()
	_, err = storage.ListKeys(ctx, m, "pages", "out/")
	assert.ErrorContains(t, err, "boom")
}

func TestRemoveKey(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("RemoveObject", ctx, "pages", "out/old.md", minio.RemoveObjectOptions{}).Return(nil).Once()
	m.On("RemoveObject", ctx, "pages", "out/locked.md", minio.RemoveObjectOptions{}).Return(errors.New("denied")).Once()

	require.NoError(t, storage.RemoveKey(ctx, m, "pages", "out/old.md"))
	assert.ErrorContains(t, storage.RemoveKey(ctx, m, "pages", "out/locked.md"), "denied")
	m.AssertExpectations(t)
}
