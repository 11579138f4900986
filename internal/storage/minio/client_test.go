package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error

	putInfo minioLib.UploadInfo
	putErr  error

	presignPutURL *url.URL
	presignPutErr error

	presignGetURL *url.URL
	presignGetErr error

	removeErr error

	statInfo minioLib.ObjectInfo
	statErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, _ string, _ io.Reader, _ int64, _ minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	return f.putInfo, f.putErr
}
func (f *fakeMinio) PresignedPutObject(_ context.Context, _ string, _ string, _ time.Duration) (*url.URL, error) {
	return f.presignPutURL, f.presignPutErr
}
func (f *fakeMinio) PresignedGetObject(_ context.Context, _ string, _ string, _ time.Duration, _ url.Values) (*url.URL, error) {
	return f.presignGetURL, f.presignGetErr
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, _ string, _ minioLib.RemoveObjectOptions) error {
	return f.removeErr
}
func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(ctx, api, "b")
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "b", c.bucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
}

func TestNewClientWithAPI_BucketExistsError(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}
	c, err := NewClientWithAPI(ctx, api, "bucket")
	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure bucket exists")
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, "k", bytes.NewReader([]byte("data")), 4, "image/png")
		assert.NoError(t, err)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{putErr: errors.New("put-fail")}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, "k", bytes.NewReader([]byte("data")), 4, "image/png")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_PresignedUploadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		u, _ := url.Parse("https://blobs.local/upload?sig=abc")
		api := &fakeMinio{presignPutURL: u}
		c := &Client{api: api, bucket: "b"}
		got, err := c.PresignedUploadURL(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, u.String(), got)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{presignPutErr: errors.New("nope")}
		c := &Client{api: api, bucket: "b"}
		_, err := c.PresignedUploadURL(ctx, "k", time.Minute)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to presign upload url")
	})
}

func TestClient_ResolveURL(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		u, _ := url.Parse("https://blobs.local/k?sig=abc")
		api := &fakeMinio{presignGetURL: u}
		c := &Client{api: api, bucket: "b"}
		got, err := c.ResolveURL(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, u.String(), got)
	})

	t.Run("empty key", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "b"}
		_, err := c.ResolveURL(ctx, "", time.Minute)
		assert.Error(t, err)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{presignGetErr: errors.New("expired")}
		c := &Client{api: api, bucket: "b"}
		_, err := c.ResolveURL(ctx, "k", time.Minute)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to presign download url")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "b"}
		assert.NoError(t, c.Delete(ctx, "k"))
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{removeErr: errors.New("rm-fail")}, bucket: "b"}
		err := c.Delete(ctx, "k")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete object")
	})
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "b"}
		ok, err := c.Exists(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}, bucket: "b"}
		ok, err := c.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: errors.New("boom")}, bucket: "b"}
		_, err := c.Exists(ctx, "k")
		assert.Error(t, err)
	})
}
