package filestorage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"inspection-system/pkg/config"
	apperrors "inspection-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stubBucket = "pdf-reports"
	stubPublic = "https://cdn.example.com/pdf-reports"
)

// bucketStub answers the path-style object calls both S3 clients make.
type bucketStub struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes []string
}

func newBucketStub(t *testing.T) (*bucketStub, *httptest.Server) {
	t.Helper()
	stub := &bucketStub{objects: map[string][]byte{}}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return stub, srv
}

func (b *bucketStub) seed(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
}

func (b *bucketStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/"+stubBucket+"/")

	b.mu.Lock()
	defer b.mu.Unlock()
	data, found := b.objects[key]

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.objects[key] = body
		w.Header().Set("ETag", `"stub"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead, http.MethodGet:
		if !found {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method == http.MethodGet {
				_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+
					`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message>`+
					`<Key>`+key+`</Key></Error>`)
			}
			return
		}
		w.Header().Set("ETag", `"stub"`)
		w.Header().Set("Last-Modified", time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC).Format(http.TimeFormat))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(data)
		}
	case http.MethodDelete:
		delete(b.objects, key)
		b.deletes = append(b.deletes, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newStubS3(t *testing.T) (*S3Storage, *bucketStub) {
	t.Helper()
	stub, srv := newBucketStub(t)
	store, err := NewS3Storage(context.Background(), config.StorageConfig{
		Driver:        "s3",
		Bucket:        stubBucket,
		Endpoint:      srv.URL,
		Region:        "auto",
		AccessKey:     "k",
		SecretKey:     "s",
		PublicBaseURL: stubPublic,
	})
	require.NoError(t, err)
	return store, stub
}

func TestS3MissingObject(t *testing.T) {
	ctx := context.Background()
	store, stub := newStubS3(t)
	handle := stubPublic + "/reports/ausente.pdf"

	_, err := store.Get(ctx, handle)
	assert.ErrorIs(t, err, apperrors.ErrObjectMissing)

	exists, err := store.Exists(ctx, handle)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, store.Delete(ctx, handle), apperrors.ErrObjectMissing)
	assert.Empty(t, stub.deletes)
}

func TestS3ExistingObject(t *testing.T) {
	ctx := context.Background()
	store, stub := newStubS3(t)
	payload := []byte("%PDF-1.4 relatório")
	stub.seed("reports/svc-1.pdf", payload)
	handle := stubPublic + "/reports/svc-1.pdf"

	got, err := store.Get(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	exists, err := store.Exists(ctx, handle)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, handle))
	assert.Equal(t, []string{"reports/svc-1.pdf"}, stub.deletes)
}

func TestS3PutReturnsPublicHandle(t *testing.T) {
	store, stub := newStubS3(t)

	handle, err := store.Put(context.Background(), "reports/svc-2.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, stubPublic+"/reports/svc-2.pdf", handle)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Contains(t, stub.objects, "reports/svc-2.pdf")
}

func TestS3RejectsForeignHandle(t *testing.T) {
	store, _ := newStubS3(t)

	_, err := store.Get(context.Background(), "https://outro.example.com/x.pdf")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrObjectMissing)
}

func TestMinioMissingAndExistingObject(t *testing.T) {
	ctx := context.Background()
	stub, srv := newBucketStub(t)
	store, err := NewMinioStorage(config.StorageConfig{
		Driver:        "minio",
		Bucket:        stubBucket,
		Endpoint:      strings.TrimPrefix(srv.URL, "http://"),
		Region:        "us-east-1",
		AccessKey:     "k",
		SecretKey:     "s",
		PublicBaseURL: stubPublic,
	})
	require.NoError(t, err)

	missing := stubPublic + "/reports/ausente.pdf"
	_, err = store.Get(ctx, missing)
	assert.ErrorIs(t, err, apperrors.ErrObjectMissing)
	exists, err := store.Exists(ctx, missing)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.ErrorIs(t, store.Delete(ctx, missing), apperrors.ErrObjectMissing)

	stub.seed("reports/svc-1.pdf", []byte("%PDF-1.4"))
	present := stubPublic + "/reports/svc-1.pdf"
	got, err := store.Get(ctx, present)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), got)
	require.NoError(t, store.Delete(ctx, present))
	assert.Equal(t, []string{"reports/svc-1.pdf"}, stub.deletes)
}
